package bind

import (
	"net/http/httptest"
	"testing"

	perr "membersearch/internal/platform/errors"
)

type searchQuery struct {
	Username *string  `query:"username" json:"username"`
	AgeGoe   *int     `query:"ageGoe" json:"ageGoe" validate:"omitempty,min=0"`
	Size     int      `query:"size" json:"size" validate:"omitempty,min=1,max=50"`
	Sort     []string `query:"sort" json:"sort"`
	Paged    bool     `query:"paged" json:"paged"`
	Ignored  string
}

func TestParseQuery_DecodesTaggedFields(t *testing.T) {
	req := httptest.NewRequest("GET", "/?username=member1&ageGoe=30&size=5&sort=age,desc&sort=+&sort=username&paged=true&Ignored=x", nil)
	got, err := ParseQuery[searchQuery](req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Username == nil || *got.Username != "member1" {
		t.Fatalf("username got=%v", got.Username)
	}
	if got.AgeGoe == nil || *got.AgeGoe != 30 {
		t.Fatalf("ageGoe got=%v", got.AgeGoe)
	}
	if got.Size != 5 || !got.Paged || got.Ignored != "" {
		t.Fatalf("got %+v", got)
	}
	if len(got.Sort) != 2 || got.Sort[0] != "age,desc" || got.Sort[1] != "username" {
		t.Fatalf("sort got=%v", got.Sort)
	}
}

func TestParseQuery_AbsentStaysNil(t *testing.T) {
	got, err := ParseQuery[searchQuery](httptest.NewRequest("GET", "/", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Username != nil || got.AgeGoe != nil || got.Sort != nil {
		t.Fatalf("expected zero value, got %+v", got)
	}
}

func TestParseQuery_BadIntegerIsValidation(t *testing.T) {
	_, err := ParseQuery[searchQuery](httptest.NewRequest("GET", "/?ageGoe=old", nil))
	e, ok := perr.As(err)
	if !ok || e.Code() != perr.ErrorCodeValidation || e.Field() != "ageGoe" {
		t.Fatalf("got %v", err)
	}
	if e.Error() != "ageGoe must be an integer" {
		t.Fatalf("message got=%q", e.Error())
	}
}

func TestDecodeQuery_IntegersAreDecimal(t *testing.T) {
	for in, want := range map[string]int{"010": 10, "08": 8, " 30 ": 30, "-0": 0} {
		got, err := DecodeQuery[searchQuery](map[string][]string{"ageGoe": {in}})
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", in, err)
		}
		if got.AgeGoe == nil || *got.AgeGoe != want {
			t.Fatalf("%q: ageGoe got=%v want=%d", in, got.AgeGoe, want)
		}
	}
	for _, in := range []string{"0x1f", "1_0", "0b11", "1e3"} {
		_, err := DecodeQuery[searchQuery](map[string][]string{"ageGoe": {in}})
		if perr.CodeOf(err) != perr.ErrorCodeValidation {
			t.Fatalf("%q: expected validation, got %v", in, err)
		}
	}
}

func TestParseQuery_ValidatorRules(t *testing.T) {
	_, err := ParseQuery[searchQuery](httptest.NewRequest("GET", "/?size=500", nil))
	e, ok := perr.As(err)
	if !ok || e.Code() != perr.ErrorCodeValidation || e.Field() != "size" {
		t.Fatalf("got %v", err)
	}

	_, err = ParseQuery[searchQuery](httptest.NewRequest("GET", "/?ageGoe=-1", nil))
	if perr.CodeOf(err) != perr.ErrorCodeValidation {
		t.Fatalf("expected validation, got %v", err)
	}
}

type EmbeddedFilter struct {
	Team *string `query:"teamname" json:"teamname"`
}

type embeddedQuery struct {
	EmbeddedFilter
	Limit *int `query:"limit" json:"limit" validate:"omitempty,min=1"`
}

func TestDecodeQuery_Embedded(t *testing.T) {
	got, err := DecodeQuery[embeddedQuery](map[string][]string{"teamname": {"teamB"}, "limit": {"3"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Team == nil || *got.Team != "teamB" || got.Limit == nil || *got.Limit != 3 {
		t.Fatalf("got %+v", got)
	}
}

type sortQuery struct {
	Sort []string `query:"sort" validate:"omitempty,dive,sortspec"`
}

func TestParseQuery_SortSpec(t *testing.T) {
	for _, ok := range []string{"/?sort=age", "/?sort=age,DESC&sort=username,asc", "/?sort=team.name,+desc"} {
		if _, err := ParseQuery[sortQuery](httptest.NewRequest("GET", ok, nil)); err != nil {
			t.Fatalf("%s: unexpected error %v", ok, err)
		}
	}
	for _, bad := range []string{"/?sort=,desc", "/?sort=age,sideways"} {
		_, err := ParseQuery[sortQuery](httptest.NewRequest("GET", bad, nil))
		e, ok := perr.As(err)
		if !ok || e.Code() != perr.ErrorCodeValidation {
			t.Fatalf("%s: got %v", bad, err)
		}
		if e.Error() != "sort[0] must look like property[,asc|desc]" {
			t.Fatalf("%s: message got=%q", bad, e.Error())
		}
	}
}
