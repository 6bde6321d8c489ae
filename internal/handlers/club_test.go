package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/clubhub-dev/clubhub/db"
	"github.com/clubhub-dev/clubhub/internal/models"
)

func TestCreateClubRequiresAdmin(t *testing.T) {
	setupTestDB(t)

	user := seedUser(t, "plain", models.RoleMember)
	r := newTestRouter(user.ID)

	w := doRequest(t, r, http.MethodPost, "/api/admin/clubs", CreateClubRequest{Name: "Chess Club"})

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d: %s", w.Code, w.Body.String())
	}
}

func TestCreateClub(t *testing.T) {
	setupTestDB(t)

	admin := seedUser(t, "admin", models.RoleAdmin)
	r := newTestRouter(admin.ID)

	w := doRequest(t, r, http.MethodPost, "/api/admin/clubs", CreateClubRequest{
		Name:        "Chess Club",
		Description: "Weekly games",
		FoundedDate: "2020-09-01",
	})

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	var club models.Club

	if err := db.DB.Where("name = ?", "Chess Club").First(&club).Error; err != nil {
		t.Fatalf("expected club row: %v", err)
	}

	if club.Category != "General" {
		t.Errorf("expected default category General, got %s", club.Category)
	}
}

func TestApproveClubBootstrapsPresident(t *testing.T) {
	setupTestDB(t)

	admin := seedUser(t, "admin", models.RoleAdmin)
	founder := seedUser(t, "founder", models.RoleGuest)
	club := seedClub(t, "Robotics Club")

	r := newTestRouter(admin.ID)
	w := doRequest(t, r, http.MethodPost, fmt.Sprintf("/api/admin/clubs/%d/approve", club.ID),
		ApproveClubRequest{UserID: founder.ID})

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var membership models.Membership

	if err := db.DB.Where("user_id = ? AND club_id = ?", founder.ID, club.ID).First(&membership).Error; err != nil {
		t.Fatalf("expected president membership: %v", err)
	}

	if membership.Role != models.MembershipRolePresident {
		t.Errorf("expected role %s, got %s", models.MembershipRolePresident, membership.Role)
	}

	if got := fetchRole(t, founder.ID); got != models.RoleExecutive {
		t.Errorf("founder should be promoted to %s, got %s", models.RoleExecutive, got)
	}
}

func TestApproveClubKeepsExistingPresident(t *testing.T) {
	setupTestDB(t)

	admin := seedUser(t, "admin", models.RoleAdmin)
	incumbent := seedUser(t, "incumbent", models.RoleExecutive)
	challenger := seedUser(t, "challenger", models.RoleGuest)
	club := seedClub(t, "Robotics Club")
	seedMembership(t, incumbent.ID, club.ID, models.MembershipRolePresident)

	r := newTestRouter(admin.ID)
	w := doRequest(t, r, http.MethodPost, fmt.Sprintf("/api/admin/clubs/%d/approve", club.ID),
		ApproveClubRequest{UserID: challenger.ID})

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var count int64

	db.DB.Model(&models.Membership{}).Where("user_id = ?", challenger.ID).Count(&count)

	if count != 0 {
		t.Errorf("a second president must not be seated, found %d memberships", count)
	}
}

func TestDeleteClubCascadesAndDemotesMembers(t *testing.T) {
	setupTestDB(t)

	admin := seedUser(t, "admin", models.RoleAdmin)
	president := seedUser(t, "president", models.RoleExecutive)
	member := seedUser(t, "member", models.RoleMember)
	club := seedClub(t, "Chess Club")
	other := seedClub(t, "Drama Club")

	seedMembership(t, president.ID, club.ID, models.MembershipRolePresident)
	seedMembership(t, member.ID, club.ID, models.MembershipRoleMember)
	keeper := seedMembership(t, member.ID, other.ID, models.MembershipRoleMember)

	event := models.Event{ClubID: club.ID, Title: "Tournament"}

	if err := db.DB.Create(&event).Error; err != nil {
		t.Fatalf("failed to seed event: %v", err)
	}

	registration := models.Registration{EventID: event.ID, UserID: member.ID}

	if err := db.DB.Create(&registration).Error; err != nil {
		t.Fatalf("failed to seed registration: %v", err)
	}

	notification := models.Notification{ClubID: club.ID, Title: "Hello"}

	if err := db.DB.Create(&notification).Error; err != nil {
		t.Fatalf("failed to seed notification: %v", err)
	}

	r := newTestRouter(admin.ID)
	w := doRequest(t, r, http.MethodDelete, fmt.Sprintf("/api/admin/clubs/%d", club.ID), nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	for name, count := range map[string]int64{
		"clubs":         countRows(t, &models.Club{}, "id = ?", club.ID),
		"memberships":   countRows(t, &models.Membership{}, "club_id = ?", club.ID),
		"events":        countRows(t, &models.Event{}, "club_id = ?", club.ID),
		"registrations": countRows(t, &models.Registration{}, "event_id = ?", event.ID),
		"notifications": countRows(t, &models.Notification{}, "club_id = ?", club.ID),
	} {
		if count != 0 {
			t.Errorf("expected no %s rows after cascade, got %d", name, count)
		}
	}

	// The president lost their only club and drops to Guest; the member keeps
	// another membership and drops to Member.
	if got := fetchRole(t, president.ID); got != models.RoleGuest {
		t.Errorf("president should become %s, got %s", models.RoleGuest, got)
	}

	if got := fetchRole(t, member.ID); got != models.RoleMember {
		t.Errorf("member should stay %s via their other club, got %s", models.RoleMember, got)
	}

	if c := countRows(t, &models.Membership{}, "id = ?", keeper.ID); c != 1 {
		t.Errorf("membership in the other club must survive, got %d rows", c)
	}
}

func countRows(t *testing.T, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()

	var count int64

	if err := db.DB.Model(model).Where(query, args...).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}

	return count
}

func TestListClubsExcludesJoined(t *testing.T) {
	setupTestDB(t)

	user := seedUser(t, "member", models.RoleMember)
	joined := seedClub(t, "Chess Club")
	open := seedClub(t, "Drama Club")
	seedMembership(t, user.ID, joined.ID, models.MembershipRoleMember)

	r := newTestRouter(user.ID)
	w := doRequest(t, r, http.MethodGet, "/api/clubs", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var response []ClubSummary

	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if len(response) != 1 || response[0].ID != open.ID {
		t.Fatalf("expected only the unjoined club, got %+v", response)
	}
}

func TestGetMembershipStatus(t *testing.T) {
	setupTestDB(t)

	user := seedUser(t, "member", models.RoleMember)
	joined := seedClub(t, "Chess Club")
	pending := seedClub(t, "Drama Club")
	stranger := seedClub(t, "Film Club")
	seedMembership(t, user.ID, joined.ID, models.MembershipRoleMember)

	request := models.ClubRequest{UserID: user.ID, ClubID: pending.ID, Status: models.RequestPending}

	if err := db.DB.Create(&request).Error; err != nil {
		t.Fatalf("failed to seed request: %v", err)
	}

	r := newTestRouter(user.ID)

	w := doRequest(t, r, http.MethodGet, fmt.Sprintf("/api/clubs/%d/membership", joined.ID), nil)
	if body := decodeBody(t, w); body["member"] != true {
		t.Errorf("expected member=true for joined club, got %v", body)
	}

	w = doRequest(t, r, http.MethodGet, fmt.Sprintf("/api/clubs/%d/membership", pending.ID), nil)
	body := decodeBody(t, w)
	if body["member"] != false || body["pendingRequest"] != true {
		t.Errorf("expected pendingRequest=true, got %v", body)
	}

	w = doRequest(t, r, http.MethodGet, fmt.Sprintf("/api/clubs/%d/membership", stranger.ID), nil)
	body = decodeBody(t, w)
	if body["member"] != false || body["pendingRequest"] != false {
		t.Errorf("expected no relationship, got %v", body)
	}
}
