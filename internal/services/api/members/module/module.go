// Package module wires member search into the API
package module

import (
	modkit "membersearch/internal/modkit"
	"membersearch/internal/modkit/httpkit"
	membershttp "membersearch/internal/services/api/members/http"
	membersrepo "membersearch/internal/services/api/members/repo"
	memberssvc "membersearch/internal/services/api/members/service"
)

// New builds the members module mounted at /members
func New(deps modkit.Deps, o Options, opts ...modkit.Option) modkit.Module {
	svc := memberssvc.New(deps.PG, membersrepo.NewPG(), memberssvc.WithConcurrentCount(o.ConcurrentCount))
	lim := o.limits()
	return modkit.New("members", "/members", func(r httpkit.Router) {
		membershttp.Register(r, svc, lim)
	}, opts...)
}
