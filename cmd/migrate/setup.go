package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/smartcafe/cafeteria-portal/internal/database"
	"github.com/smartcafe/cafeteria-portal/internal/models"
	"github.com/smartcafe/cafeteria-portal/internal/services"
	"github.com/smartcafe/cafeteria-portal/pkg/validator"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

var (
	// create-staff flags
	staffUsername  string
	staffPassword  string
	staffRole      string
	staffCafeteria string
	bcryptCost     int

	// create-student flags
	studentRegNo     string
	studentFirstName string
	studentLastName  string
	studentPhone     string
)

// seedPermissionsCmd creates and seeds the permission tables
var seedPermissionsCmd = &cobra.Command{
	Use:   "seed-permissions",
	Short: "Create the permission tables and seed the default permissions",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withPermissionService(cmd.Context(), func(ctx context.Context, svc *services.PermissionService) error {
			if err := svc.EnsurePermissionTables(ctx); err != nil {
				return err
			}
			fmt.Printf("Seeded %d permissions\n", len(models.DefaultPermissions))
			return nil
		})
	},
}

// setupAdminCmd grants every permission to the administrator role
var setupAdminCmd = &cobra.Command{
	Use:   "setup-admin",
	Short: "Grant every permission to the administrator role",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withPermissionService(cmd.Context(), func(ctx context.Context, svc *services.PermissionService) error {
			if err := svc.SetupAdminPermissions(ctx); err != nil {
				return err
			}
			fmt.Printf("Role %s now holds every permission\n", services.AdminRoleID)
			return nil
		})
	},
}

// createStaffCmd adds a staff login
var createStaffCmd = &cobra.Command{
	Use:   "create-staff",
	Short: "Create a staff member with a bcrypt password",
	Long: `Create a staff member.

Examples:
  migrate create-staff --username admin --password 's3cret!' --role R001
  migrate create-staff --username cashier --password 'pa55' --role R002 --cafeteria C001`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCreateStaff(cmd.Context())
	},
}

// createStudentCmd adds a student who can place orders
var createStudentCmd = &cobra.Command{
	Use:   "create-student",
	Short: "Register a student",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCreateStudent(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(seedPermissionsCmd, setupAdminCmd, createStaffCmd, createStudentCmd)

	createStaffCmd.Flags().StringVar(&staffUsername, "username", "", "Login name")
	createStaffCmd.Flags().StringVar(&staffPassword, "password", "", "Plain text password, stored as a bcrypt hash")
	createStaffCmd.Flags().StringVar(&staffRole, "role", "", "Role ID such as R001")
	createStaffCmd.Flags().StringVar(&staffCafeteria, "cafeteria", "", "Cafeteria ID such as C001")
	createStaffCmd.Flags().IntVar(&bcryptCost, "bcrypt-cost", bcrypt.DefaultCost, "bcrypt work factor")
	_ = createStaffCmd.MarkFlagRequired("username")
	_ = createStaffCmd.MarkFlagRequired("password")
	_ = createStaffCmd.MarkFlagRequired("role")

	createStudentCmd.Flags().StringVar(&studentRegNo, "reg-no", "", "Registration number")
	createStudentCmd.Flags().StringVar(&studentFirstName, "first-name", "", "First name")
	createStudentCmd.Flags().StringVar(&studentLastName, "last-name", "", "Last name")
	createStudentCmd.Flags().StringVar(&studentPhone, "phone", "", "Phone number such as 0712345678")
	_ = createStudentCmd.MarkFlagRequired("reg-no")
	_ = createStudentCmd.MarkFlagRequired("first-name")
	_ = createStudentCmd.MarkFlagRequired("last-name")
}

func withPermissionService(ctx context.Context, fn func(context.Context, *services.PermissionService) error) error {
	db, err := openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	svc := services.NewPermissionService(
		database.NewPermissionRepository(db),
		database.NewRoleRepository(db),
		database.NewStaffRepository(db),
		database.NewStatsRepository(db),
		services.DefaultPolicy(),
		newLogger(),
	)
	return fn(ctx, svc)
}

func runCreateStaff(ctx context.Context) error {
	username := strings.TrimSpace(staffUsername)
	if username == "" || staffPassword == "" {
		return errors.New("--username and --password must not be empty")
	}
	if err := validator.ValidateRoleID(staffRole); err != nil {
		return err
	}

	db, err := openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	auth := services.NewAuthService(database.NewStaffRepository(db), database.NewStudentRepository(db), bcryptCost, newLogger())
	hash, err := auth.HashPassword(staffPassword)
	if err != nil {
		return err
	}

	cafeteria := sql.NullString{String: staffCafeteria, Valid: staffCafeteria != ""}
	staff, err := database.NewStaffRepository(db).Create(ctx, username, hash, staffRole, cafeteria)
	switch {
	case database.IsUniqueViolation(err):
		return fmt.Errorf("username %q is already taken", username)
	case database.IsForeignKeyViolation(err):
		return fmt.Errorf("role %s or cafeteria %q does not exist", staffRole, staffCafeteria)
	case err != nil:
		return err
	}

	fmt.Printf("Created staff member %d (%s, %s)\n", staff.StaffID, staff.Username, staff.RoleID)
	return nil
}

func runCreateStudent(ctx context.Context) error {
	regNo, err := validator.ValidateRegNo(studentRegNo)
	if err != nil {
		return err
	}
	phone := ""
	if studentPhone != "" {
		if phone, err = validator.NewPhoneValidator().Validate(studentPhone); err != nil {
			return err
		}
	}

	db, err := openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	err = database.NewStudentRepository(db).Create(ctx, &models.Student{
		RegNo:     regNo,
		FirstName: strings.TrimSpace(studentFirstName),
		LastName:  strings.TrimSpace(studentLastName),
		Phone:     phone,
	})
	if database.IsUniqueViolation(err) {
		return fmt.Errorf("student %s already exists", regNo)
	}
	if err != nil {
		return err
	}

	fmt.Printf("Created student %s\n", regNo)
	return nil
}
