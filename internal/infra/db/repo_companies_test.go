package db

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"jobly/internal/domain"
)

func TestCompanyCreateDuplicateSkipsInsert(t *testing.T) {
	q := &fakeQuerier{rows: []fakeRow{{values: []any{true}}}}
	repo := NewCompanyRepo(q)
	_, err := repo.Create(context.Background(), domain.Company{Handle: "ibm", Name: "IBM"})
	if !errors.Is(err, domain.ErrDuplicate) || !errors.Is(err, domain.ErrBadRequest) {
		t.Fatalf("expected duplicate bad request, got %v", err)
	}
	if len(q.calls) != 1 {
		t.Fatalf("expected only the existence check, got %d calls", len(q.calls))
	}
	if strings.Contains(q.calls[0].sql, "INSERT") {
		t.Fatalf("unexpected insert: %q", q.calls[0].sql)
	}
}

func TestCompanyCreateInserts(t *testing.T) {
	n := 1000
	q := &fakeQuerier{rows: []fakeRow{
		{values: []any{false}},
		{values: []any{"ibm", "IBM", "", &n, nil}},
	}}
	got, err := NewCompanyRepo(q).Create(context.Background(), domain.Company{Handle: "ibm", Name: "IBM", NumEmployees: &n})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if got.Handle != "ibm" || got.NumEmployees == nil || *got.NumEmployees != 1000 || got.LogoURL != nil {
		t.Fatalf("unexpected company: %+v", got)
	}
	if !strings.Contains(q.calls[1].sql, "INSERT INTO companies") {
		t.Fatalf("expected insert, got %q", q.calls[1].sql)
	}
}

func TestCompanyUpdateBindsHandleAfterAssignments(t *testing.T) {
	n := 2000
	logo := "http://logo"
	q := &fakeQuerier{rows: []fakeRow{{values: []any{"ibm", "IBM", "", &n, &logo}}}}
	_, err := NewCompanyRepo(q).Update(context.Background(), "ibm", domain.CompanyPatch{NumEmployees: &n, LogoURL: &logo})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	call := q.calls[0]
	if !strings.Contains(call.sql, `SET "num_employees"=$1, "logo_url"=$2 WHERE handle = $3`) {
		t.Fatalf("unexpected sql: %q", call.sql)
	}
	if !reflect.DeepEqual(call.args, []any{2000, "http://logo", "ibm"}) {
		t.Fatalf("unexpected args: %#v", call.args)
	}
}

func TestCompanyUpdateMissing(t *testing.T) {
	name := "New"
	_, err := NewCompanyRepo(&fakeQuerier{}).Update(context.Background(), "nope", domain.CompanyPatch{Name: &name})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCompanyGetMissing(t *testing.T) {
	_, err := NewCompanyRepo(&fakeQuerier{}).Get(context.Background(), "nope")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCompanyRemove(t *testing.T) {
	q := &fakeQuerier{affected: 0}
	if err := NewCompanyRepo(q).Remove(context.Background(), "nope"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	q.affected = 1
	if err := NewCompanyRepo(q).Remove(context.Background(), "ibm"); err != nil {
		t.Fatalf("remove: %v", err)
	}
}
