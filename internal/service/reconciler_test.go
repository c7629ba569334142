package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/haradejene/yegara-web-lms/internal/service"
	servicemocks "github.com/haradejene/yegara-web-lms/internal/service/mocks"
)

func TestReconciler_RunOnce(t *testing.T) {
	db := setupTestDB(t)
	r := newRepos()
	progressSvc := servicemocks.NewProgressService(t)

	a := seedCourse(t, db, "A", 1)
	b := seedCourse(t, db, "B", 1)
	c := seedCourse(t, db, "C", 1)

	progressSvc.On("RecalculateCourse", mock.Anything, a.ID).Return(2, nil).Once()
	progressSvc.On("RecalculateCourse", mock.Anything, b.ID).Return(0, errors.New("boom")).Once()
	progressSvc.On("RecalculateCourse", mock.Anything, c.ID).Return(1, nil).Once()

	rec := service.NewReconciler(db, r.course, progressSvc, "", nil)
	updated, err := rec.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, updated)
}

func TestReconciler_StartStop(t *testing.T) {
	db := setupTestDB(t)
	r := newRepos()

	rec := service.NewReconciler(db, r.course, servicemocks.NewProgressService(t), "@every 1h", nil)
	require.NoError(t, rec.Start())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	rec.Stop(ctx)

	bad := service.NewReconciler(db, r.course, servicemocks.NewProgressService(t), "not a schedule", nil)
	assert.Error(t, bad.Start())
}
