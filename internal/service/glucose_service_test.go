package service

import (
	"Glycora/internal/api/dto"
	"Glycora/internal/model"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeGlucoseRepo struct {
	readings []*model.GlucoseReading
	nextID   uint64
}

func newFakeGlucoseRepo() *fakeGlucoseRepo {
	return &fakeGlucoseRepo{nextID: 1}
}

func (f *fakeGlucoseRepo) Create(_ context.Context, r *model.GlucoseReading) error {
	r.ID = f.nextID
	f.nextID++
	f.readings = append(f.readings, r)
	return nil
}

func (f *fakeGlucoseRepo) BatchCreate(ctx context.Context, readings []*model.GlucoseReading) error {
	for _, r := range readings {
		if err := f.Create(ctx, r); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeGlucoseRepo) GetByID(_ context.Context, id uint64) (*model.GlucoseReading, error) {
	for _, r := range f.readings {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeGlucoseRepo) ListByPatient(_ context.Context, patientID uint64, from, to time.Time, limit int) ([]*model.GlucoseReading, error) {
	var res []*model.GlucoseReading
	for _, r := range f.readings {
		if r.PatientID == patientID && !r.MeasuredAt.Before(from) && !r.MeasuredAt.After(to) {
			res = append(res, r)
		}
	}
	if len(res) > limit {
		res = res[:limit]
	}
	return res, nil
}

func (f *fakeGlucoseRepo) Delete(_ context.Context, id uint64) error {
	for i, r := range f.readings {
		if r.ID == id {
			f.readings = append(f.readings[:i], f.readings[i+1:]...)
			return nil
		}
	}
	return nil
}

func newGlucoseFixture(t *testing.T) (GlucoseService, *fakeGlucoseRepo) {
	t.Helper()
	users := newFakeUserRepo(
		&model.User{ID: 1, Username: "patient1", Role: model.RolePatient, DisplayName: "张三"},
		&model.User{ID: 10, Username: "doc1", Role: model.RoleClinician, DisplayName: "王医生"},
	)
	repo := newFakeGlucoseRepo()
	messages := newFakeMessageRepo()
	typing := NewTypingTrackerWithIdle(&fakePresenceBus{}, time.Hour)
	im := NewIMService(messages, users, &fakeEventPublisher{}, typing)
	return NewGlucoseService(repo, users, &fakeEventPublisher{}, im), repo
}

func TestGlucoseCreateManual(t *testing.T) {
	svc, repo := newGlucoseFixture(t)

	res, err := svc.Create(context.Background(), 1, &dto.CreateGlucoseReq{Value: 120, Note: "早餐后"})
	require.NoError(t, err)
	assert.Equal(t, model.GlucoseSourceManual, res.Source)
	assert.Equal(t, float64(120), res.Value)
	require.Len(t, repo.readings, 1)
}

func TestGlucoseListAuthorization(t *testing.T) {
	svc, _ := newGlucoseFixture(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, 1, &dto.CreateGlucoseReq{Value: 120})
	require.NoError(t, err)

	// 本人可查
	list, err := svc.ListByPatient(ctx, 1, 1, time.Time{}, time.Time{}, 0)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	// 医生可查
	list, err = svc.ListByPatient(ctx, 10, 1, time.Time{}, time.Time{}, 0)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	// 陌生用户不可查
	_, err = svc.ListByPatient(ctx, 99, 1, time.Time{}, time.Time{}, 0)
	assert.ErrorIs(t, err, UnauthorizedError)
}

func TestGlucoseDeleteOwnerOnly(t *testing.T) {
	svc, repo := newGlucoseFixture(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, 1, &dto.CreateGlucoseReq{Value: 120})
	require.NoError(t, err)

	err = svc.Delete(ctx, 10, 1)
	assert.ErrorIs(t, err, UnauthorizedError)
	assert.Len(t, repo.readings, 1)

	err = svc.Delete(ctx, 1, 1)
	require.NoError(t, err)
	assert.Empty(t, repo.readings)
}

func TestIngestDeviceReadingsDropsMalformed(t *testing.T) {
	svc, repo := newGlucoseFixture(t)

	err := svc.IngestDeviceReadings(context.Background(), []*dto.CGMReadingEvent{
		{PatientID: 1, DeviceID: "dex-1", Value: 110, MeasuredAt: time.Now().Unix()},
		{PatientID: 0, DeviceID: "dex-2", Value: 95, MeasuredAt: time.Now().Unix()},
		{PatientID: 1, DeviceID: "dex-1", Value: -3, MeasuredAt: time.Now().Unix()},
	})
	require.NoError(t, err)

	// 坏事件被丢弃，只落库合法记录
	require.Len(t, repo.readings, 1)
	assert.Equal(t, model.GlucoseSourceCGM, repo.readings[0].Source)
	assert.Equal(t, "dex-1", repo.readings[0].DeviceID)
}
