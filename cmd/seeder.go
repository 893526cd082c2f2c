package cmd

import (
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm/clause"

	alertDatamodel "github.com/rupeedesk/cbs-admin/internal/core/datamodel/alert"
	branchDatamodel "github.com/rupeedesk/cbs-admin/internal/core/datamodel/branch"
	userDatamodel "github.com/rupeedesk/cbs-admin/internal/core/datamodel/user"
)

// seedBranches is the initial branch directory.
var seedBranches = []branchDatamodel.Branch{
	{Name: "Agartala", Code: "SBININBB476"},
	{Name: "Ballygunge (Kolkata)", Code: "SBININBB328"},
	{Name: "Bhagalpur", Code: "SBININBB384"},
	{Name: "Bhubaneswar Main Branch", Code: "SBININBB270"},
	{Name: "Burnpur", Code: "SBININBB640"},
	{Name: "Cuttack", Code: "SBININBB768"},
	{Name: "Darjeeling", Code: "SBININBB336"},
	{Name: "Dhanbad", Code: "SBININBB388"},
	{Name: "Dibrugarh", Code: "SBININBB661"},
	{Name: "Durgapur", Code: "SBININBB337"},
	{Name: "Guwahati", Code: "SBININBB159"},
	{Name: "Gorakhpur", Code: "SBININBB497"},
	{Name: "Imphal", Code: "SBININBB480"},
	{Name: "Jamshedpur", Code: "SBININBB164"},
	{Name: "Kanpur Main Branch", Code: "SBININBB124"},
	{Name: "Karimganj", Code: "SBININBB481"},
	{Name: "Lucknow Main Branch", Code: "SBININBB157"},
	{Name: "Muzaffarpur", Code: "SBININBB791"},
	{Name: "Naini", Code: "SBININBB351"},
	{Name: "Netaji Subhas Road (Kolkata)", Code: "SBININBB495"},
	{Name: "Ahmednagar", Code: "SBININBB507"},
	{Name: "Andheri West (Mumbai)", Code: "SBININBB354"},
	{Name: "Backbay Reclamation (Mumbai)", Code: "SBININBB107"},
	{Name: "Bhabha Atomic Research Centre (Mumbai)", Code: "SBININBB508"},
	{Name: "Bhandup (Mumbai)", Code: "SBININBB509"},
	{Name: "Borivli East (Mumbai)", Code: "SBININBB510"},
	{Name: "Byculla (Mumbai)", Code: "SBININBB511"},
	{Name: "Calangute (Goa)", Code: "SBININBB512"},
	{Name: "IIT Powai (Mumbai)", Code: "SBININBB519"},
	{Name: "Dadar (Mumbai)", Code: "SBININBB355"},
}

type seedUser struct {
	ID             string
	Username       string
	Password       string
	Role           string
	FullName       string
	BranchName     string
	BranchCode     string
	DepartmentName string
	Departments    string
	CreatedBy      string
}

// seedUsers are the demo accounts for each role tier.
var seedUsers = []seedUser{
	{
		ID:             "user-superadmin",
		Username:       "superadmin@cbs.in",
		Password:       "superadmin",
		Role:           "super_admin",
		FullName:       "CBS Super Administrator",
		DepartmentName: "Corporate Office",
	},
	{
		ID:             "user-admin-01",
		Username:       "ops.admin@cbs.in",
		Password:       "admin123",
		Role:           "admin",
		FullName:       "Amit Verma",
		DepartmentName: "Central Operations",
		CreatedBy:      "user-superadmin",
	},
	{
		ID:             "user-head-01",
		Username:       "head.ops@cbs.in",
		Password:       "head123",
		Role:           "head_department",
		FullName:       "Prisha Kulkarni",
		DepartmentName: "Retail Banking",
		Departments:    "Retail Banking,Digital Banking",
		CreatedBy:      "user-admin-01",
	},
	{
		ID:         "user-manager-01",
		Username:   "manager.south@cbs.in",
		Password:   "manager123",
		Role:       "branch_manager",
		FullName:   "Dev Sharma",
		BranchName: "Andheri West (Mumbai)",
		BranchCode: "SBININBB354",
		CreatedBy:  "user-head-01",
	},
	{
		ID:         "user-staff-01",
		Username:   "staff.premium@cbs.in",
		Password:   "staff123",
		Role:       "staff",
		FullName:   "Neha Singh",
		BranchName: "Andheri West (Mumbai)",
		BranchCode: "SBININBB354",
		CreatedBy:  "user-manager-01",
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with demo accounts and the branch directory for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, _, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}

		if clearData {
			fmt.Println("Clearing existing data...")
			for _, table := range []string{"alert_seen", "alerts", "users", "branches"} {
				if err := db.Exec("DELETE FROM " + table).Error; err != nil {
					log.Fatalf("failed to clear %s: %v", table, err)
				}
			}
		}

		now := time.Now()

		for i := range seedBranches {
			seedBranches[i].CreatedAt = now
		}
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&seedBranches).Error; err != nil {
			log.Fatalf("failed to seed branches: %v", err)
		}
		fmt.Printf("Seeded %d branches\n", len(seedBranches))

		for _, su := range seedUsers {
			hash, err := bcrypt.GenerateFromPassword([]byte(su.Password), cfg.Security.BCryptCost)
			if err != nil {
				log.Fatalf("failed to hash password for %s: %v", su.Username, err)
			}

			record := userDatamodel.User{
				ID:             su.ID,
				Username:       su.Username,
				Email:          su.Username,
				FullName:       su.FullName,
				PasswordHash:   string(hash),
				Role:           su.Role,
				BranchName:     su.BranchName,
				BranchCode:     su.BranchCode,
				DepartmentName: su.DepartmentName,
				Departments:    su.Departments,
				IsLocked:       false,
				IsDemo:         true,
				CreatedBy:      su.CreatedBy,
				CreatedAt:      now,
				UpdatedAt:      now,
			}

			if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&record).Error; err != nil {
				log.Fatalf("failed to seed user %s: %v", su.Username, err)
			}
			fmt.Println("Seeded user:", su.Username)
		}

		// welcome alert from the super admin, visible to everyone
		welcome := alertDatamodel.Alert{
			ID:          "alert-welcome",
			Title:       "Welcome to the admin console",
			Message:     "Demo data has been loaded. Sign in with any of the seeded accounts.",
			CreatorID:   "user-superadmin",
			CreatorName: "CBS Super Administrator",
			CreatorRole: "super_admin",
			TargetRoles: "super_admin,admin,head_department,branch_manager,staff",
			CreatedAt:   now,
		}
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&welcome).Error; err != nil {
			log.Fatalf("failed to seed welcome alert: %v", err)
		}

		fmt.Println("Seeding complete")
	},
}
