package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hihello1226/our-ledger/internal/apperrors"
	"github.com/hihello1226/our-ledger/internal/core/domain"
	portsrepo "github.com/hihello1226/our-ledger/internal/core/ports/repositories"
)

type PgxHouseholdRepository struct {
	BaseRepository
}

func newPgxHouseholdRepository(pool *pgxpool.Pool) portsrepo.HouseholdRepositoryFacade {
	return &PgxHouseholdRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.HouseholdRepositoryFacade = (*PgxHouseholdRepository)(nil)

// FindMembershipByUser resolves the household of a user. A user belongs to at most one household.
func (r *PgxHouseholdRepository) FindMembershipByUser(ctx context.Context, userID string) (*domain.Membership, error) {
	query := `
		SELECT h.household_id, h.name, m.member_id, m.user_id, COALESCE(u.name, ''), m.role
		FROM household_members m
		JOIN households h ON h.household_id = m.household_id
		LEFT JOIN users u ON u.user_id = m.user_id
		WHERE m.user_id = $1
		ORDER BY m.joined_at
		LIMIT 1`

	var ms domain.Membership
	err := r.Pool.QueryRow(ctx, query, userID).Scan(
		&ms.Household.HouseholdID,
		&ms.Household.Name,
		&ms.Member.MemberID,
		&ms.Member.UserID,
		&ms.Member.Name,
		&ms.Member.Role,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to resolve household of user %s: %w", userID, err)
	}
	ms.Member.HouseholdID = ms.Household.HouseholdID
	return &ms, nil
}

// ListMembers returns the members of a household in join order.
func (r *PgxHouseholdRepository) ListMembers(ctx context.Context, householdID string) ([]domain.HouseholdMember, error) {
	query := `
		SELECT m.member_id, m.household_id, m.user_id, COALESCE(u.name, ''), m.role
		FROM household_members m
		LEFT JOIN users u ON u.user_id = m.user_id
		WHERE m.household_id = $1
		ORDER BY m.joined_at, m.member_id`

	rows, err := r.Pool.Query(ctx, query, householdID)
	if err != nil {
		return nil, fmt.Errorf("failed to query members of household %s: %w", householdID, err)
	}
	defer rows.Close()

	members := []domain.HouseholdMember{}
	for rows.Next() {
		var m domain.HouseholdMember
		if err := rows.Scan(&m.MemberID, &m.HouseholdID, &m.UserID, &m.Name, &m.Role); err != nil {
			return nil, fmt.Errorf("failed to scan household member: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating household members: %w", err)
	}
	return members, nil
}
