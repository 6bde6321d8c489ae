package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/clubhub-dev/clubhub/db"
	"github.com/clubhub-dev/clubhub/internal/models"
)

func TestDeleteUserCascades(t *testing.T) {
	setupTestDB(t)

	admin := seedUser(t, "admin", models.RoleAdmin)
	target := seedUser(t, "target", models.RoleMember)
	club := seedClub(t, "Chess Club")
	seedMembership(t, target.ID, club.ID, models.MembershipRoleMember)

	event := models.Event{ClubID: club.ID, Title: "Tournament", Venue: "Hall A"}

	if err := db.DB.Create(&event).Error; err != nil {
		t.Fatalf("failed to seed event: %v", err)
	}

	rows := []interface{}{
		&models.ClubRequest{UserID: target.ID, ClubID: club.ID, Status: models.RequestApproved},
		&models.Registration{EventID: event.ID, UserID: target.ID},
		&models.DeviceToken{UserID: target.ID, Token: "tok-1", Platform: "android"},
		&models.NotificationSettings{UserID: target.ID},
	}

	for _, row := range rows {
		if err := db.DB.Create(row).Error; err != nil {
			t.Fatalf("failed to seed row %T: %v", row, err)
		}
	}

	r := newTestRouter(admin.ID)
	w := doRequest(t, r, http.MethodDelete, fmt.Sprintf("/api/admin/users/%d", target.ID), nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	for name, count := range map[string]int64{
		"users":                 countRows(t, &models.User{}, "id = ?", target.ID),
		"memberships":           countRows(t, &models.Membership{}, "user_id = ?", target.ID),
		"club_requests":         countRows(t, &models.ClubRequest{}, "user_id = ?", target.ID),
		"registrations":         countRows(t, &models.Registration{}, "user_id = ?", target.ID),
		"device_tokens":         countRows(t, &models.DeviceToken{}, "user_id = ?", target.ID),
		"notification_settings": countRows(t, &models.NotificationSettings{}, "user_id = ?", target.ID),
	} {
		if count != 0 {
			t.Errorf("expected no %s rows after delete, got %d", name, count)
		}
	}
}

func TestDeleteUserSelf(t *testing.T) {
	setupTestDB(t)

	admin := seedUser(t, "admin", models.RoleAdmin)

	r := newTestRouter(admin.ID)
	w := doRequest(t, r, http.MethodDelete, fmt.Sprintf("/api/admin/users/%d", admin.ID), nil)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", w.Code, w.Body.String())
	}

	if c := countRows(t, &models.User{}, "id = ?", admin.ID); c != 1 {
		t.Errorf("self-delete must not remove the account")
	}
}

func TestDeleteUserRequiresAdmin(t *testing.T) {
	setupTestDB(t)

	user := seedUser(t, "plain", models.RoleExecutive)
	target := seedUser(t, "target", models.RoleMember)

	r := newTestRouter(user.ID)
	w := doRequest(t, r, http.MethodDelete, fmt.Sprintf("/api/admin/users/%d", target.ID), nil)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d: %s", w.Code, w.Body.String())
	}
}

func TestDeleteUserNotFound(t *testing.T) {
	setupTestDB(t)

	admin := seedUser(t, "admin", models.RoleAdmin)

	r := newTestRouter(admin.ID)
	w := doRequest(t, r, http.MethodDelete, "/api/admin/users/9999", nil)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAdminStats(t *testing.T) {
	setupTestDB(t)

	admin := seedUser(t, "admin", models.RoleAdmin)
	seedUser(t, "guest", models.RoleGuest)
	member := seedUser(t, "member", models.RoleMember)
	applicant := seedUser(t, "applicant", models.RoleGuest)

	club := seedClub(t, "Chess Club")
	seedMembership(t, member.ID, club.ID, models.MembershipRoleMember)

	request := models.ClubRequest{UserID: applicant.ID, ClubID: club.ID, Status: models.RequestPending}

	if err := db.DB.Create(&request).Error; err != nil {
		t.Fatalf("failed to seed request: %v", err)
	}

	event := models.Event{ClubID: club.ID, Title: "Tournament", Venue: "Hall A"}

	if err := db.DB.Create(&event).Error; err != nil {
		t.Fatalf("failed to seed event: %v", err)
	}

	registration := models.Registration{EventID: event.ID, UserID: member.ID}

	if err := db.DB.Create(&registration).Error; err != nil {
		t.Fatalf("failed to seed registration: %v", err)
	}

	r := newTestRouter(admin.ID)
	w := doRequest(t, r, http.MethodGet, "/api/admin/stats", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	body := decodeBody(t, w)

	// Guests don't count as active; admin and member do
	if body["totalClubs"] != float64(1) {
		t.Errorf("expected 1 club, got %v", body["totalClubs"])
	}
	if body["activeUsers"] != float64(2) {
		t.Errorf("expected 2 active users, got %v", body["activeUsers"])
	}
	if body["pendingApprovals"] != float64(1) {
		t.Errorf("expected 1 pending approval, got %v", body["pendingApprovals"])
	}
	if body["eventSignups"] != float64(1) {
		t.Errorf("expected 1 event signup, got %v", body["eventSignups"])
	}
}
