package memory

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	domainOperator "cellular-usage-report/internal/domain/operator"

	"github.com/google/uuid"
)

// OperatorRepository serves operators from the static OPERATORS table. It is
// used when no database is configured and never accepts writes.
type OperatorRepository struct {
	mu         sync.RWMutex
	byUsername map[string]*domainOperator.Operator
	byID       map[uuid.UUID]*domainOperator.Operator
}

func NewOperatorRepository(operators []*domainOperator.Operator) *OperatorRepository {
	repo := &OperatorRepository{
		byUsername: make(map[string]*domainOperator.Operator, len(operators)),
		byID:       make(map[uuid.UUID]*domainOperator.Operator, len(operators)),
	}
	for _, op := range operators {
		repo.byUsername[op.Username] = op
		repo.byID[op.ID] = op
	}
	return repo
}

// ParseOperatorTable reads entries of the form
// "username=role:bcrypt-hash" separated by semicolons. Ids are derived from
// the username so they stay stable across restarts.
func ParseOperatorTable(table string) ([]*domainOperator.Operator, error) {
	var operators []*domainOperator.Operator
	seen := make(map[string]bool)
	now := time.Now()

	for _, entry := range strings.Split(table, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		username, rest, ok := strings.Cut(entry, "=")
		if !ok {
			return nil, fmt.Errorf("operator entry %q: missing '='", entry)
		}
		role, hash, ok := strings.Cut(rest, ":")
		if !ok {
			return nil, fmt.Errorf("operator entry %q: missing ':' between role and hash", username)
		}

		username = strings.ToLower(strings.TrimSpace(username))
		if username == "" {
			return nil, fmt.Errorf("operator entry %q: empty username", entry)
		}
		if seen[username] {
			return nil, fmt.Errorf("operator %q listed twice", username)
		}

		r := domainOperator.Role(strings.TrimSpace(role))
		if !r.Valid() {
			return nil, fmt.Errorf("operator %q: unknown role %q", username, role)
		}

		hash = strings.TrimSpace(hash)
		if !strings.HasPrefix(hash, "$2") {
			return nil, fmt.Errorf("operator %q: password must be a bcrypt hash", username)
		}

		seen[username] = true
		operators = append(operators, &domainOperator.Operator{
			ID:             uuid.NewSHA1(uuid.NameSpaceOID, []byte("operator:"+username)),
			Username:       username,
			DisplayName:    username,
			PasswordHashed: hash,
			Role:           r,
			IsActive:       true,
			CreatedAt:      now,
			UpdatedAt:      now,
		})
	}

	return operators, nil
}

func (r *OperatorRepository) Create(context.Context, *domainOperator.Operator) error {
	return domainOperator.ErrReadOnlyStore
}

func (r *OperatorRepository) GetByUsername(_ context.Context, username string) (*domainOperator.Operator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	op, ok := r.byUsername[username]
	if !ok {
		return nil, domainOperator.ErrOperatorNotFound
	}
	clone := *op
	return &clone, nil
}

func (r *OperatorRepository) GetByID(_ context.Context, id uuid.UUID) (*domainOperator.Operator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	op, ok := r.byID[id]
	if !ok {
		return nil, domainOperator.ErrOperatorNotFound
	}
	clone := *op
	return &clone, nil
}

func (r *OperatorRepository) List(context.Context) ([]*domainOperator.Operator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]*domainOperator.Operator, 0, len(r.byUsername))
	for _, op := range r.byUsername {
		clone := *op
		list = append(list, &clone)
	}
	slices.SortFunc(list, func(a, b *domainOperator.Operator) int {
		return strings.Compare(a.Username, b.Username)
	})
	return list, nil
}
