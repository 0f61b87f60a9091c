// Package accessguard decides which operations a caller's session permits.
package accessguard

import "github.com/go-petr/branch-bank/internal/domain"

// Capability names a class of operations that share an access rule.
type Capability int

// Supported capabilities.
const (
	// AnyRole is granted to every authenticated caller.
	AnyRole Capability = iota + 1
	// EmployeeOnly covers branch staff operations such as enrolling users.
	EmployeeOnly
	// CustomerOnly covers operations on the caller's own accounts.
	CustomerOnly
)

func (c Capability) String() string {
	switch c {
	case AnyRole:
		return "AnyRole"
	case EmployeeOnly:
		return "EmployeeOnly"
	case CustomerOnly:
		return "CustomerOnly"
	}

	return "Unknown"
}

// Check returns nil when sess grants c.
func Check(sess *domain.Session, c Capability) error {
	if sess == nil || sess.Username == "" {
		return domain.ErrNotAuthenticated
	}

	switch c {
	case AnyRole:
		if sess.Role == domain.RoleEmployee || sess.Role == domain.RoleCustomer {
			return nil
		}
	case EmployeeOnly:
		if sess.Role == domain.RoleEmployee {
			return nil
		}
	case CustomerOnly:
		if sess.Role == domain.RoleCustomer && sess.CustomerID != "" {
			return nil
		}
	}

	return domain.ErrForbidden
}

// HistoryScope returns the part of the ledger sess may read.
// Employees see every entry, customers only entries on accounts they own.
func HistoryScope(sess *domain.Session) (domain.HistoryScope, error) {
	if err := Check(sess, AnyRole); err != nil {
		return domain.HistoryScope{}, err
	}

	if sess.Role == domain.RoleEmployee {
		return domain.AllHistory(), nil
	}

	if sess.CustomerID == "" {
		return domain.HistoryScope{}, domain.ErrForbidden
	}

	return domain.CustomerHistory(sess.CustomerID), nil
}
