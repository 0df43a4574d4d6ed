package cli

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"membersearch/internal/core/paging"
	perr "membersearch/internal/platform/errors"
	"membersearch/internal/platform/logger"
	"membersearch/internal/platform/store"
	"membersearch/internal/services/api/members/domain"
	membersrepo "membersearch/internal/services/api/members/repo"
	memberssvc "membersearch/internal/services/api/members/service"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

type pageFunc func(memberssvc.Service, context.Context, domain.SearchCondition, paging.Request) (paging.Page[domain.MemberTeam], error)

// shapes maps --shape values to service calls
var shapes = map[string]pageFunc{
	"all":          memberssvc.Service.SearchPage,
	"teams":        memberssvc.Service.SearchTeamMembers,
	"name-matches": memberssvc.Service.SearchNameMatches,
}

type searchOptions struct {
	username   string
	teamName   string
	ageGoe     int
	ageLoe     int
	page       int
	size       int
	sort       []string
	shape      string
	concurrent bool
}

// condition keeps only the flags the user actually set
func (so *searchOptions) condition(cmd *cobra.Command) domain.SearchCondition {
	var c domain.SearchCondition
	if cmd.Flags().Changed("username") {
		c.Username = &so.username
	}
	if cmd.Flags().Changed("teamname") {
		c.TeamName = &so.teamName
	}
	if cmd.Flags().Changed("age-goe") {
		c.AgeGoe = &so.ageGoe
	}
	if cmd.Flags().Changed("age-loe") {
		c.AgeLoe = &so.ageLoe
	}
	return c
}

func (so *searchOptions) request() (paging.Request, error) {
	return domain.PageRequest(domain.PageInput{Page: &so.page, Size: &so.size, Sort: so.sort}, domain.DefaultLimits)
}

func newSearchCommand(opts *rootOptions) *cobra.Command {
	so := &searchOptions{}
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Run one paged member search",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pick, ok := shapes[so.shape]
			if !ok {
				return perr.Validationf("shape", "unknown shape %q", so.shape)
			}
			req, err := so.request()
			if err != nil {
				return err
			}
			cond := so.condition(cmd)

			reqID := uuid.NewString()
			ctx := store.WithRequestID(logger.WithRequest(cmd.Context(), reqID, "search."+so.shape), reqID)

			st, err := opts.openStore(ctx)
			if err != nil {
				return err
			}
			defer closeStore(ctx, st)

			svc := memberssvc.New(st.PG, membersrepo.NewPG(), memberssvc.WithConcurrentCount(so.concurrent))
			p, err := pick(svc, ctx, cond, req)
			if err != nil {
				return err
			}
			return render(opts, cmd.OutOrStdout(), domain.NewMemberPage(p), func() string { return pageText(p) })
		},
	}
	f := cmd.Flags()
	f.StringVar(&so.username, "username", "", "exact username")
	f.StringVar(&so.teamName, "teamname", "", "exact team name")
	f.IntVar(&so.ageGoe, "age-goe", 0, "minimum age")
	f.IntVar(&so.ageLoe, "age-loe", 0, "maximum age")
	f.IntVar(&so.page, "page", 0, "zero based page")
	f.IntVar(&so.size, "size", domain.DefaultLimits.DefaultSize, "page size")
	f.StringArrayVar(&so.sort, "sort", nil, "property[,asc|desc], repeatable")
	f.StringVar(&so.shape, "shape", "all", "all|teams|name-matches")
	f.BoolVar(&so.concurrent, "concurrent-count", false, "count alongside the content read")
	return cmd
}

func pageText(p paging.Page[domain.MemberTeam]) string {
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tUSERNAME\tAGE\tTEAM ID\tTEAM")
	for _, m := range p.Content {
		teamID, team := "-", "-"
		if m.TeamID != nil {
			teamID = fmt.Sprint(*m.TeamID)
		}
		if m.TeamName != nil {
			team = *m.TeamName
		}
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%s\n", m.MemberID, m.Username, m.Age, teamID, team)
	}
	_ = w.Flush()
	counted := "counted"
	if !p.Counted {
		counted = "inferred"
	}
	fmt.Fprintf(&b, "page %d of %d, %d total (%s), sort %s", p.Number(), p.TotalPages(), p.Total, counted, p.Request.Sort)
	return b.String()
}
