package domain

// ApprovalStatus is the closed set of review states a registration moves
// through. Self-registered accounts start Pending; only an admin moves them
// to Approved or Rejected. There are no other transitions.
type ApprovalStatus string

const (
	StatusPending  ApprovalStatus = "pending"
	StatusApproved ApprovalStatus = "approved"
	StatusRejected ApprovalStatus = "rejected"
)

func (s ApprovalStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

func ParseApprovalStatus(s string) (ApprovalStatus, bool) {
	st := ApprovalStatus(s)
	return st, st.Valid()
}
