package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/clubhub-dev/clubhub/db"
	"github.com/clubhub-dev/clubhub/internal/models"
)

func TestAddMemberPromotesUser(t *testing.T) {
	setupTestDB(t)

	president := seedUser(t, "president", models.RoleExecutive)
	recruit := seedUser(t, "recruit", models.RoleGuest)
	club := seedClub(t, "Chess Club")
	seedMembership(t, president.ID, club.ID, models.MembershipRolePresident)

	r := newTestRouter(president.ID)
	w := doRequest(t, r, http.MethodPost, fmt.Sprintf("/api/clubs/%d/members", club.ID),
		AddMemberRequest{Email: recruit.Email})

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	if got := fetchRole(t, recruit.ID); got != models.RoleMember {
		t.Errorf("expected role %s after add, got %s", models.RoleMember, got)
	}
}

func TestAddMemberUnknownEmail(t *testing.T) {
	setupTestDB(t)

	president := seedUser(t, "president", models.RoleExecutive)
	club := seedClub(t, "Chess Club")
	seedMembership(t, president.ID, club.ID, models.MembershipRolePresident)

	r := newTestRouter(president.ID)
	w := doRequest(t, r, http.MethodPost, fmt.Sprintf("/api/clubs/%d/members", club.ID),
		AddMemberRequest{Email: "ghost@campus.edu"})

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAddMemberTwice(t *testing.T) {
	setupTestDB(t)

	president := seedUser(t, "president", models.RoleExecutive)
	recruit := seedUser(t, "recruit", models.RoleMember)
	club := seedClub(t, "Chess Club")
	seedMembership(t, president.ID, club.ID, models.MembershipRolePresident)
	seedMembership(t, recruit.ID, club.ID, models.MembershipRoleMember)

	r := newTestRouter(president.ID)
	w := doRequest(t, r, http.MethodPost, fmt.Sprintf("/api/clubs/%d/members", club.ID),
		AddMemberRequest{Email: recruit.Email})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestUpdateMemberRolePromotesToExecutive(t *testing.T) {
	setupTestDB(t)

	president := seedUser(t, "president", models.RoleExecutive)
	member := seedUser(t, "member", models.RoleMember)
	club := seedClub(t, "Chess Club")
	seedMembership(t, president.ID, club.ID, models.MembershipRolePresident)
	membership := seedMembership(t, member.ID, club.ID, models.MembershipRoleMember)

	r := newTestRouter(president.ID)
	w := doRequest(t, r, http.MethodPatch,
		fmt.Sprintf("/api/clubs/%d/members/%d", club.ID, membership.ID),
		UpdateMemberRoleRequest{Role: models.MembershipRoleTreasurer})

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	if got := fetchRole(t, member.ID); got != models.RoleExecutive {
		t.Errorf("expected role %s after promotion, got %s", models.RoleExecutive, got)
	}
}

func TestUpdateMemberRoleExecutiveElsewhereRejected(t *testing.T) {
	setupTestDB(t)

	president := seedUser(t, "president", models.RoleExecutive)
	busy := seedUser(t, "busy", models.RoleExecutive)
	chess := seedClub(t, "Chess Club")
	drama := seedClub(t, "Drama Club")
	seedMembership(t, president.ID, chess.ID, models.MembershipRolePresident)
	seedMembership(t, busy.ID, drama.ID, models.MembershipRoleSecretary)
	membership := seedMembership(t, busy.ID, chess.ID, models.MembershipRoleMember)

	r := newTestRouter(president.ID)
	w := doRequest(t, r, http.MethodPatch,
		fmt.Sprintf("/api/clubs/%d/members/%d", chess.ID, membership.ID),
		UpdateMemberRoleRequest{Role: models.MembershipRoleTreasurer})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", w.Code, w.Body.String())
	}

	if body := decodeBody(t, w); body["error"] != "User already holds an executive role in another club" {
		t.Errorf("unexpected error message: %v", body["error"])
	}

	// The membership row must be left unchanged
	var unchanged models.Membership

	if err := db.DB.First(&unchanged, membership.ID).Error; err != nil {
		t.Fatalf("failed to refetch membership: %v", err)
	}

	if unchanged.Role != models.MembershipRoleMember {
		t.Errorf("membership role must stay %s, got %s", models.MembershipRoleMember, unchanged.Role)
	}
}

func TestUpdateMemberRoleSameClubRotation(t *testing.T) {
	setupTestDB(t)

	president := seedUser(t, "president", models.RoleExecutive)
	club := seedClub(t, "Chess Club")
	membership := seedMembership(t, president.ID, club.ID, models.MembershipRolePresident)

	r := newTestRouter(president.ID)
	w := doRequest(t, r, http.MethodPatch,
		fmt.Sprintf("/api/clubs/%d/members/%d", club.ID, membership.ID),
		UpdateMemberRoleRequest{Role: models.MembershipRoleSecretary})

	if w.Code != http.StatusOK {
		t.Fatalf("title rotation inside one club should pass, got %d: %s", w.Code, w.Body.String())
	}
}

func TestUpdateMemberRoleInvalidRole(t *testing.T) {
	setupTestDB(t)

	president := seedUser(t, "president", models.RoleExecutive)
	club := seedClub(t, "Chess Club")
	membership := seedMembership(t, president.ID, club.ID, models.MembershipRolePresident)

	r := newTestRouter(president.ID)
	w := doRequest(t, r, http.MethodPatch,
		fmt.Sprintf("/api/clubs/%d/members/%d", club.ID, membership.ID),
		UpdateMemberRoleRequest{Role: "Overlord"})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestDemoteLastExecutiveDowngradesGlobalRole(t *testing.T) {
	setupTestDB(t)

	admin := seedUser(t, "admin", models.RoleAdmin)
	president := seedUser(t, "president", models.RoleExecutive)
	club := seedClub(t, "Chess Club")
	membership := seedMembership(t, president.ID, club.ID, models.MembershipRolePresident)

	r := newTestRouter(admin.ID)
	w := doRequest(t, r, http.MethodPatch,
		fmt.Sprintf("/api/clubs/%d/members/%d", club.ID, membership.ID),
		UpdateMemberRoleRequest{Role: models.MembershipRoleMember})

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	if got := fetchRole(t, president.ID); got != models.RoleMember {
		t.Errorf("losing the only title should demote to %s, got %s", models.RoleMember, got)
	}
}

func TestRemoveMemberRecomputesRole(t *testing.T) {
	setupTestDB(t)

	president := seedUser(t, "president", models.RoleExecutive)
	member := seedUser(t, "member", models.RoleMember)
	club := seedClub(t, "Chess Club")
	seedMembership(t, president.ID, club.ID, models.MembershipRolePresident)
	membership := seedMembership(t, member.ID, club.ID, models.MembershipRoleMember)

	r := newTestRouter(president.ID)
	w := doRequest(t, r, http.MethodDelete,
		fmt.Sprintf("/api/clubs/%d/members/%d", club.ID, membership.ID), nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var count int64

	db.DB.Model(&models.Membership{}).Where("user_id = ?", member.ID).Count(&count)

	if count != 0 {
		t.Errorf("expected membership removed, found %d rows", count)
	}

	if got := fetchRole(t, member.ID); got != models.RoleGuest {
		t.Errorf("removing the only membership should demote to %s, got %s", models.RoleGuest, got)
	}
}

func TestLeaveClub(t *testing.T) {
	setupTestDB(t)

	member := seedUser(t, "member", models.RoleMember)
	club := seedClub(t, "Chess Club")
	seedMembership(t, member.ID, club.ID, models.MembershipRoleMember)

	r := newTestRouter(member.ID)
	w := doRequest(t, r, http.MethodDelete, fmt.Sprintf("/api/clubs/%d/leave", club.ID), nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	if got := fetchRole(t, member.ID); got != models.RoleGuest {
		t.Errorf("leaving the only club should demote to %s, got %s", models.RoleGuest, got)
	}
}

func TestLeaveClubNotAMember(t *testing.T) {
	setupTestDB(t)

	user := seedUser(t, "outsider", models.RoleGuest)
	club := seedClub(t, "Chess Club")

	r := newTestRouter(user.ID)
	w := doRequest(t, r, http.MethodDelete, fmt.Sprintf("/api/clubs/%d/leave", club.ID), nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	if body := decodeBody(t, w); body["message"] != "Not a member of this club" {
		t.Errorf("unexpected message: %v", body["message"])
	}
}
