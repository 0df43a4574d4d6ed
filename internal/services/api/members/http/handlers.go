// Package http provides http transport for member search
package http

import (
	stdhttp "net/http"

	"membersearch/internal/modkit/httpkit"
	"membersearch/internal/services/api/members/domain"
	svc "membersearch/internal/services/api/members/service"
)

// Register mounts member search endpoints on the given router
func Register(r httpkit.Router, s svc.Service, lim domain.Limits) {
	h := &handlers{svc: s, lim: lim.Normalize()}
	httpkit.GetQuery[domain.SearchCondition](r, "/v1", h.search)
	httpkit.GetQuery[domain.SearchCondition](r, "/v1/builder", h.searchByBuilder)
	httpkit.GetQuery[domain.SearchInput](r, "/", h.searchPage)
	httpkit.GetQuery[domain.SearchInput](r, "/teams", h.searchTeamMembers)
	httpkit.GetQuery[domain.SearchInput](r, "/name-matches", h.searchNameMatches)
	httpkit.Get(r, "/by-username/{username}", h.byUsername)
}

type handlers struct {
	svc svc.Service
	lim domain.Limits
}

// swagger:route GET /members/v1 Members membersSearch
// @Summary Members matching every given filter, teamless members included
// @Tags Members
// @Produce json
// @Param username query string false "Exact username"
// @Param teamname query string false "Exact team name"
// @Param ageGoe query int false "Minimum age"
// @Param ageLoe query int false "Maximum age"
// @Success 200 {array} domain.MemberTeam "ok"
// @Failure 400 {object} httpkit.Envelope "invalid filter"
// @Router /members/v1 [get]
func (h *handlers) search(r *stdhttp.Request, in domain.SearchCondition) (any, error) {
	return h.svc.Search(r.Context(), in)
}

// swagger:route GET /members/v1/builder Members membersSearchByBuilder
// @Summary Same as /members/v1, filter accumulated field by field
// @Tags Members
// @Produce json
// @Param username query string false "Exact username"
// @Param teamname query string false "Exact team name"
// @Param ageGoe query int false "Minimum age"
// @Param ageLoe query int false "Maximum age"
// @Success 200 {array} domain.MemberTeam "ok"
// @Router /members/v1/builder [get]
func (h *handlers) searchByBuilder(r *stdhttp.Request, in domain.SearchCondition) (any, error) {
	return h.svc.SearchByBuilder(r.Context(), in)
}

// swagger:route GET /members Members membersSearchPage
// @Summary One page of members matching the filter
// @Description The total is inferred without a count query when the page is short
// @Tags Members
// @Produce json
// @Param username query string false "Exact username"
// @Param teamname query string false "Exact team name"
// @Param ageGoe query int false "Minimum age"
// @Param ageLoe query int false "Maximum age"
// @Param page query int false "Zero based page"
// @Param size query int false "Page size"
// @Param offset query int false "Row offset, wins over page"
// @Param limit query int false "Row limit, wins over size"
// @Param sort query []string false "property[,asc|desc], repeatable" collectionFormat(multi)
// @Success 200 {object} domain.MemberPage "ok"
// @Failure 400 {object} httpkit.Envelope "invalid filter, paging or sort"
// @Router /members [get]
func (h *handlers) searchPage(r *stdhttp.Request, in domain.SearchInput) (any, error) {
	req, err := domain.PageRequest(in.PageInput, h.lim)
	if err != nil {
		return nil, err
	}
	p, err := h.svc.SearchPage(r.Context(), in.SearchCondition, req)
	if err != nil {
		return nil, err
	}
	return domain.NewMemberPage(p), nil
}

// swagger:route GET /members/teams Members membersSearchTeamMembers
// @Summary One page of members that belong to a team
// @Tags Members
// @Produce json
// @Param teamname query string false "Exact team name"
// @Param page query int false "Zero based page"
// @Param size query int false "Page size"
// @Param sort query []string false "property[,asc|desc], repeatable" collectionFormat(multi)
// @Success 200 {object} domain.MemberPage "ok"
// @Router /members/teams [get]
func (h *handlers) searchTeamMembers(r *stdhttp.Request, in domain.SearchInput) (any, error) {
	req, err := domain.PageRequest(in.PageInput, h.lim)
	if err != nil {
		return nil, err
	}
	p, err := h.svc.SearchTeamMembers(r.Context(), in.SearchCondition, req)
	if err != nil {
		return nil, err
	}
	return domain.NewMemberPage(p), nil
}

// swagger:route GET /members/name-matches Members membersSearchNameMatches
// @Summary One page of members joined to the team sharing their name
// @Tags Members
// @Produce json
// @Param page query int false "Zero based page"
// @Param size query int false "Page size"
// @Success 200 {object} domain.MemberPage "ok"
// @Router /members/name-matches [get]
func (h *handlers) searchNameMatches(r *stdhttp.Request, in domain.SearchInput) (any, error) {
	req, err := domain.PageRequest(in.PageInput, h.lim)
	if err != nil {
		return nil, err
	}
	p, err := h.svc.SearchNameMatches(r.Context(), in.SearchCondition, req)
	if err != nil {
		return nil, err
	}
	return domain.NewMemberPage(p), nil
}

// swagger:route GET /members/by-username/{username} Members membersByUsername
// @Summary The single member with this username
// @Tags Members
// @Produce json
// @Param username path string true "Username"
// @Success 200 {object} domain.MemberTeam "ok"
// @Failure 404 {object} httpkit.Envelope "no such member"
// @Failure 409 {object} httpkit.Envelope "more than one member has this username"
// @Router /members/by-username/{username} [get]
func (h *handlers) byUsername(r *stdhttp.Request) (any, error) {
	return h.svc.FindByUsername(r.Context(), httpkit.Param(r, "username"))
}
