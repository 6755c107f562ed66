package learning

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/coursegen-backend/internal/data/repos/testutil"
	"github.com/yungbote/coursegen-backend/internal/domain"
)

func TestEnrollmentRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewEnrollmentRepo(db, testutil.Logger(t))

	email := "learner-" + uuid.NewString() + "@example.com"
	c1 := testutil.SeedCourse(t, ctx, tx, "author@example.com", 3, testutil.Chapters(3))
	c2 := testutil.SeedCourse(t, ctx, tx, "author@example.com", 2, nil)

	if err := repo.Create(ctx, tx, &domain.Enrollment{CID: c1.CID, UserEmail: email}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.Create(ctx, tx, &domain.Enrollment{CID: c2.CID, UserEmail: email}); err != nil {
		t.Fatalf("Create second: %v", err)
	}

	got, err := repo.GetByUserAndCID(ctx, tx, email, c1.CID)
	if err != nil || got == nil {
		t.Fatalf("GetByUserAndCID: err=%v got=%v", err, got)
	}
	if len(got.Completed()) != 0 {
		t.Fatalf("new enrollment completed: got=%v want=[]", got.Completed())
	}

	if rows, err := repo.UpdateCompletedChapters(ctx, tx, email, c1.CID, []int{2, 0, 2}); err != nil || rows != 1 {
		t.Fatalf("UpdateCompletedChapters: err=%v rows=%d", err, rows)
	}
	got, _ = repo.GetByUserAndCID(ctx, tx, email, c1.CID)
	if want := []int{0, 2}; !reflect.DeepEqual(got.Completed(), want) {
		t.Fatalf("completed: got=%v want=%v", got.Completed(), want)
	}

	list, err := repo.ListByUserEmail(ctx, tx, email)
	if err != nil || len(list) != 2 {
		t.Fatalf("ListByUserEmail: err=%v len=%d", err, len(list))
	}
	if list[0].CID != c2.CID {
		t.Fatalf("ListByUserEmail order: got=%s want=%s", list[0].CID, c2.CID)
	}

	if missing, err := repo.GetByUserAndCID(ctx, tx, email, uuid.NewString()); err != nil || missing != nil {
		t.Fatalf("GetByUserAndCID missing: err=%v got=%v", err, missing)
	}

	err = repo.Create(ctx, tx, &domain.Enrollment{CID: c1.CID, UserEmail: email})
	if !errors.Is(err, ErrDuplicateEnrollment) {
		t.Fatalf("Create duplicate: got=%v want=%v", err, ErrDuplicateEnrollment)
	}
}
