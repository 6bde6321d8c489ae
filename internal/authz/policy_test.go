package authz

import (
	"testing"
	"time"

	"github.com/clubhub-dev/clubhub/internal/middleware"
	"github.com/clubhub-dev/clubhub/internal/models"
	"github.com/glebarez/sqlite"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})

	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	sqlDB, err := database.DB()

	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}

	sqlDB.SetMaxOpenConns(1)

	if err := database.AutoMigrate(&models.User{}, &models.Club{}, &models.Membership{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	return database
}

func seedActor(t *testing.T, db *gorm.DB, role, clubRole string, clubID uint) middleware.AuthenticatedUser {
	t.Helper()

	user := models.User{
		Name:         "actor",
		Email:        role + clubRole + "@campus.edu",
		PasswordHash: "x",
		Role:         role,
	}

	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	if clubRole != "" {
		membership := models.Membership{
			UserID:   user.ID,
			ClubID:   clubID,
			Role:     clubRole,
			JoinDate: datatypes.Date(time.Now()),
		}

		if err := db.Create(&membership).Error; err != nil {
			t.Fatalf("failed to create membership: %v", err)
		}
	}

	return middleware.AuthenticatedUser{ID: user.ID, Name: user.Name, Email: user.Email, Role: user.Role}
}

func TestCanAdminActions(t *testing.T) {
	db := newTestDB(t)

	admin := seedActor(t, db, models.RoleAdmin, "", 0)
	exec := seedActor(t, db, models.RoleExecutive, models.MembershipRolePresident, 1)

	for _, action := range []Action{ActionManageClubs, ActionManageUsers} {
		if ok, err := Can(db, admin, action, 0); err != nil || !ok {
			t.Errorf("admin should pass %s, got ok=%v err=%v", action, ok, err)
		}

		if ok, err := Can(db, exec, action, 0); err != nil || ok {
			t.Errorf("executive must not pass %s, got ok=%v err=%v", action, ok, err)
		}
	}
}

func TestCanClubActions(t *testing.T) {
	db := newTestDB(t)

	club := models.Club{Name: "Chess Club"}

	if err := db.Create(&club).Error; err != nil {
		t.Fatalf("failed to create club: %v", err)
	}

	president := seedActor(t, db, models.RoleExecutive, models.MembershipRolePresident, club.ID)
	secretary := seedActor(t, db, models.RoleExecutive, models.MembershipRoleSecretary, club.ID)
	treasurer := seedActor(t, db, models.RoleExecutive, models.MembershipRoleTreasurer, club.ID)
	member := seedActor(t, db, models.RoleMember, models.MembershipRoleMember, club.ID)
	outsider := seedActor(t, db, models.RoleGuest, "", 0)
	admin := seedActor(t, db, models.RoleAdmin, "", 0)

	cases := []struct {
		name  string
		actor middleware.AuthenticatedUser
		want  bool
	}{
		{"president", president, true},
		{"secretary", secretary, true},
		{"treasurer", treasurer, true},
		{"member", member, false},
		{"outsider", outsider, false},
		{"admin without membership", admin, true},
	}

	for _, tc := range cases {
		ok, err := Can(db, tc.actor, ActionManageMembers, club.ID)

		if err != nil {
			t.Fatalf("%s: Can failed: %v", tc.name, err)
		}

		if ok != tc.want {
			t.Errorf("%s: expected %v for manage members, got %v", tc.name, tc.want, ok)
		}
	}
}

// Announcements are restricted to the President and Secretary.
func TestCanAnnounce(t *testing.T) {
	db := newTestDB(t)

	club := models.Club{Name: "Chess Club"}

	if err := db.Create(&club).Error; err != nil {
		t.Fatalf("failed to create club: %v", err)
	}

	president := seedActor(t, db, models.RoleExecutive, models.MembershipRolePresident, club.ID)
	secretary := seedActor(t, db, models.RoleExecutive, models.MembershipRoleSecretary, club.ID)
	treasurer := seedActor(t, db, models.RoleExecutive, models.MembershipRoleTreasurer, club.ID)

	if ok, _ := Can(db, president, ActionAnnounce, club.ID); !ok {
		t.Error("president should be allowed to announce")
	}

	if ok, _ := Can(db, secretary, ActionAnnounce, club.ID); !ok {
		t.Error("secretary should be allowed to announce")
	}

	if ok, _ := Can(db, treasurer, ActionAnnounce, club.ID); ok {
		t.Error("treasurer must not be allowed to announce")
	}
}
