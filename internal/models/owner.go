package models

import "time"

// Owner is the customer-level record aggregating one or more accounts.
// It is the unit of persistence: any balance change is followed by saving the
// owning record through the persistence gateway.
type Owner struct {
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
	ID        string    `db:"id"`
	Username  string    `db:"username"`
	FirstName string    `db:"first_name"`
	LastName  string    `db:"last_name"`
	BranchID  string    `db:"branch_id"`
	Accounts  []*Account
}

// Account returns the owned account with the given id, or nil.
func (o *Owner) Account(accountID string) *Account {
	for _, acct := range o.Accounts {
		if acct.ID == accountID {
			return acct
		}
	}
	return nil
}

// Clone returns a deep copy of the owner and its accounts. A transaction
// referenced from two accounts of the same owner stays a single record in the
// copy.
func (o *Owner) Clone() *Owner {
	dup := *o
	dup.Accounts = make([]*Account, len(o.Accounts))
	seen := make(map[string]*Transaction)
	for i, acct := range o.Accounts {
		cp := *acct
		cp.History = make([]*Transaction, len(acct.History))
		for j, txn := range acct.History {
			if shared, ok := seen[txn.ID]; ok {
				cp.History[j] = shared
				continue
			}
			tc := *txn
			cp.History[j] = &tc
			seen[txn.ID] = &tc
		}
		dup.Accounts[i] = &cp
	}
	return &dup
}
