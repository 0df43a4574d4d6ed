package domain

import (
	"context"

	"membersearch/internal/core/paging"
)

// ServicePort defines the service contract for member search
type ServicePort interface {
	// Search lists every member matching cond, members without a team included
	Search(ctx context.Context, cond SearchCondition) ([]MemberTeam, error)
	// SearchByBuilder is Search composed through the accumulating builder
	SearchByBuilder(ctx context.Context, cond SearchCondition) ([]MemberTeam, error)
	// SearchPage is the paged Search
	SearchPage(ctx context.Context, cond SearchCondition, req paging.Request) (paging.Page[MemberTeam], error)
	// SearchTeamMembers pages only members that belong to a team
	SearchTeamMembers(ctx context.Context, cond SearchCondition, req paging.Request) (paging.Page[MemberTeam], error)
	// SearchNameMatches pages members joined to teams sharing their name
	SearchNameMatches(ctx context.Context, cond SearchCondition, req paging.Request) (paging.Page[MemberTeam], error)
	// FindByUsername returns the only member with username
	FindByUsername(ctx context.Context, username string) (MemberTeam, error)
}
