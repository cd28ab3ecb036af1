package domain

import "testing"

func TestRoleValid(t *testing.T) {
	for _, r := range []Role{RoleAdmin, RoleTypeOne, RoleTypeTwo} {
		if !r.Valid() {
			t.Fatalf("expected %q valid", r)
		}
	}
	for _, r := range []Role{"", "root", "Admin", "type3"} {
		if r.Valid() {
			t.Fatalf("expected %q invalid", r)
		}
	}
}

func TestParseRole(t *testing.T) {
	if r, ok := ParseRole("type1"); !ok || r != RoleTypeOne {
		t.Fatalf("ParseRole(type1) = %q, %v", r, ok)
	}
	if _, ok := ParseRole("superuser"); ok {
		t.Fatalf("expected parse failure")
	}
}

func TestApprovalStatusValid(t *testing.T) {
	for _, s := range []ApprovalStatus{StatusPending, StatusApproved, StatusRejected} {
		if !s.Valid() {
			t.Fatalf("expected %q valid", s)
		}
	}
	for _, s := range []ApprovalStatus{"", "banned", "Pending", "approved "} {
		if s.Valid() {
			t.Fatalf("expected %q invalid", s)
		}
	}
}
