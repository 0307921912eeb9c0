package permissions

import (
	"context"
	"errors"
	"testing"
)

func TestSetAllowed(t *testing.T) {
	set := NewSet("Projects:View", "translations:*")
	if !set.Allowed("projects:view") {
		t.Fatalf("expected case-insensitive match")
	}
	if !set.Allowed(TranslationsTranslate) {
		t.Fatalf("expected resource wildcard to match")
	}
	if set.Allowed(ProjectsManage) {
		t.Fatalf("expected projects:manage denied")
	}
	if !NewSet("*").Allowed(ProjectsManage) {
		t.Fatalf("expected global wildcard to match")
	}
}

func TestContextAllows(t *testing.T) {
	if ContextAllows(context.Background(), ProjectsView) {
		t.Fatalf("expected no checker to grant nothing")
	}
	ctx := WithPermissions(context.Background(), TranslationsTranslate)
	if !ContextAllows(ctx, TranslationsTranslate) {
		t.Fatalf("expected context permission")
	}
	if ContextAllows(ctx, ProjectsManage) {
		t.Fatalf("expected other permissions denied")
	}
}

func TestErrorUnwrap(t *testing.T) {
	err := Error{Permission: ProjectsManage}
	if !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied")
	}
	if err.Error() != "permission denied: projects:manage" {
		t.Fatalf("unexpected message %q", err.Error())
	}
	if Join("Projects", ActionManage) != ProjectsManage {
		t.Fatalf("unexpected join")
	}
}
