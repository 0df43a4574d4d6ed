// Package domain holds DTOs for member search http and service contracts
package domain

import "membersearch/internal/core/paging"

// SearchCondition is the optional filter set, absent fields do not constrain
type SearchCondition struct {
	Username *string `query:"username" json:"username,omitempty" validate:"omitempty,max=100" example:"member1"`
	TeamName *string `query:"teamname" json:"teamName,omitempty" validate:"omitempty,max=100" example:"teamB"`
	AgeGoe   *int    `query:"ageGoe" json:"ageGoe,omitempty" validate:"omitempty,min=0" example:"30"`
	AgeLoe   *int    `query:"ageLoe" json:"ageLoe,omitempty" validate:"omitempty,min=0" example:"40"`
}

// PageInput is the raw paging part of a search request
// page and size follow the zero based page convention, offset and limit
// address rows directly and win when both are given
type PageInput struct {
	Page   *int     `query:"page" json:"page,omitempty" validate:"omitempty,min=0" example:"0"`
	Size   *int     `query:"size" json:"size,omitempty" validate:"omitempty,min=1" example:"20"`
	Offset *int64   `query:"offset" json:"offset,omitempty" validate:"omitempty,min=0" example:"0"`
	Limit  *int     `query:"limit" json:"limit,omitempty" validate:"omitempty,min=1" example:"20"`
	Sort   []string `query:"sort" json:"sort,omitempty" validate:"omitempty,dive,sortspec" example:"age,desc"`
}

// SearchInput is a filter plus paging bound from query params
type SearchInput struct {
	SearchCondition
	PageInput
}

// MemberTeam is the projected row, team fields are nil without a team
type MemberTeam struct {
	MemberID int64   `json:"memberId" example:"1"`
	Username string  `json:"username" example:"member1"`
	Age      int     `json:"age" example:"10"`
	TeamID   *int64  `json:"teamId" example:"1"`
	TeamName *string `json:"teamName" example:"teamA"`
}

// MemberPage is a page of projected rows
type MemberPage struct {
	Content       []MemberTeam `json:"content"`
	TotalElements int64        `json:"totalElements" example:"100"`
	TotalPages    int64        `json:"totalPages" example:"5"`
	Size          int          `json:"size" example:"20"`
	Number        int64        `json:"number" example:"0"`
	Offset        int64        `json:"offset" example:"0"`
	Sort          string       `json:"sort" example:"username: ASC"`
	First         bool         `json:"first"`
	Last          bool         `json:"last"`
	CountSkipped  bool         `json:"countSkipped"`
}

// NewMemberPage converts a paging result into its wire shape
func NewMemberPage(p paging.Page[MemberTeam]) MemberPage {
	content := p.Content
	if content == nil {
		content = []MemberTeam{}
	}
	return MemberPage{
		Content:       content,
		TotalElements: p.Total,
		TotalPages:    p.TotalPages(),
		Size:          p.Size(),
		Number:        p.Number(),
		Offset:        p.Request.Offset,
		Sort:          p.Request.Sort.String(),
		First:         p.Request.Offset == 0,
		Last:          !p.HasNext(),
		CountSkipped:  !p.Counted,
	}
}
