package main

import (
	"fmt"
	"log"
	"os"
	"regexp"
	"strings"

	"github.com/gymbuddy/gymbuddy-backend/config"
	"github.com/gymbuddy/gymbuddy-backend/internal/app/model"
	"github.com/gymbuddy/gymbuddy-backend/internal/app/repository"
	"github.com/gymbuddy/gymbuddy-backend/internal/db"
	"github.com/gymbuddy/gymbuddy-backend/pkg/util"
	"github.com/xuri/excelize/v2"
)

// Imports gym owner accounts from an XLSX export. Expected columns:
// owner email, owner name, business name, business email, address,
// description. Each row becomes a gym_owner user with a pending
// gym account; owners reset their password on first sign-in.

type gymImport struct {
	user    model.User
	account model.GymAccount
}

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path>")
	}

	filePath := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	userRepo := repository.NewUserRepository(db.GetDB())

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	imports, err := readGymsFromXLSX(filePath)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Total gyms to import: %d\n", len(imports))

	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	imported := 0
	failed := 0
	for _, imp := range imports {
		user := imp.user
		account := imp.account
		if err := userRepo.CreateWithGymAccount(&user, &account); err != nil {
			fmt.Printf("  Failed to import %s: %v\n", user.Email, err)
			failed++
			continue
		}
		imported++

		if imported%100 == 0 {
			fmt.Printf("Imported %d gyms...\n", imported)
		}
	}

	fmt.Println("Import completed!")
	fmt.Printf("  Imported: %d\n", imported)
	fmt.Printf("  Failed:   %d\n", failed)
}

func readGymsFromXLSX(filePath string) ([]gymImport, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in XLSX file")
	}

	fmt.Printf("Reading sheet: %s\n", sheetName)

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("no data found in XLSX file")
	}

	// Imported owners get a placeholder credential and must reset it
	placeholderHash, err := util.HashPassword("changeme-" + sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to hash placeholder password: %w", err)
	}

	var imports []gymImport
	seenEmails := make(map[string]bool)
	nicknameCounter := make(map[string]int)
	skippedCount := 0

	for i, row := range rows {
		if i == 0 {
			fmt.Printf("Headers: %v\n", row)
			continue
		}

		if len(row) < 5 {
			skippedCount++
			continue
		}

		email := strings.ToLower(strings.TrimSpace(row[0]))
		ownerName := strings.TrimSpace(row[1])
		businessName := strings.TrimSpace(row[2])
		businessEmail := strings.ToLower(strings.TrimSpace(row[3]))
		address := strings.TrimSpace(row[4])

		description := ""
		if len(row) > 5 {
			description = strings.TrimSpace(row[5])
		}

		if email == "" || ownerName == "" || businessName == "" || address == "" {
			skippedCount++
			continue
		}
		if !isValidEmail(email) {
			skippedCount++
			continue
		}
		if seenEmails[email] {
			skippedCount++
			continue
		}
		seenEmails[email] = true

		if businessEmail == "" {
			businessEmail = email
		}

		// Nicknames are unique; derive from the business name and
		// suffix duplicates
		baseNickname := generateNickname(businessName)
		nickname := baseNickname
		if count, exists := nicknameCounter[baseNickname]; exists {
			nicknameCounter[baseNickname] = count + 1
			nickname = fmt.Sprintf("%s-%d", baseNickname, count+1)
		} else {
			nicknameCounter[baseNickname] = 1
		}

		imports = append(imports, gymImport{
			user: model.User{
				Email:        email,
				PasswordHash: placeholderHash,
				Name:         ownerName,
				Nickname:     nickname,
				Role:         model.RoleUser,
				AccountType:  model.AccountTypeGymOwner,
			},
			account: model.GymAccount{
				BusinessName:       businessName,
				BusinessEmail:      businessEmail,
				Address:            address,
				Description:        description,
				VerificationStatus: model.VerificationStatusPending,
			},
		})
	}

	fmt.Printf("\nSummary:\n")
	fmt.Printf("  Total rows: %d\n", len(rows)-1)
	fmt.Printf("  Valid gyms: %d\n", len(imports))
	fmt.Printf("  Skipped rows: %d\n", skippedCount)

	return imports, nil
}

// generateNickname derives a unique-ish handle from a business name
func generateNickname(name string) string {
	nickname := strings.ToLower(name)

	reg := regexp.MustCompile(`[^\p{L}\p{N}-]+`)
	nickname = reg.ReplaceAllString(nickname, "-")

	reg = regexp.MustCompile(`-+`)
	nickname = reg.ReplaceAllString(nickname, "-")

	return strings.Trim(nickname, "-")
}

var emailReg = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

func isValidEmail(email string) bool {
	return emailReg.MatchString(email)
}
