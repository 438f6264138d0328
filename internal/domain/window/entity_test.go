package window

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVET_ApplyConfirmation_AutoClose(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	v := VET{TargetPackageCount: 60, Status: VETOpen}

	closed, err := v.ApplyConfirmation(15, now)
	require.NoError(t, err)
	assert.True(t, closed)
	assert.Equal(t, 45, v.TargetPackageCount)
	assert.Equal(t, VETClosed, v.Status)
	require.NotNil(t, v.ClosedAt)
	assert.Equal(t, now, *v.ClosedAt)
}

func TestVET_ApplyConfirmation_StaysOpen(t *testing.T) {
	v := VET{TargetPackageCount: 200, Status: VETOpen}

	closed, err := v.ApplyConfirmation(30, time.Now())
	require.NoError(t, err)
	assert.False(t, closed)
	assert.Equal(t, 170, v.TargetPackageCount)
	assert.Equal(t, VETOpen, v.Status)
	assert.Nil(t, v.ClosedAt)
}

func TestVET_ApplyConfirmation_FloorsAtZero(t *testing.T) {
	v := VET{TargetPackageCount: 10, Status: VETOpen}

	closed, err := v.ApplyConfirmation(25.4, time.Now())
	require.NoError(t, err)
	assert.True(t, closed)
	assert.Equal(t, 0, v.TargetPackageCount)
}

func TestVET_ApplyConfirmation_RequiresOpen(t *testing.T) {
	v := VET{TargetPackageCount: 100, Status: VETClosed}

	_, err := v.ApplyConfirmation(10, time.Now())
	assert.ErrorIs(t, err, ErrVETNotOpen)
	assert.Equal(t, 100, v.TargetPackageCount)
}

func TestVET_CloseReopenRoundTrip(t *testing.T) {
	now := time.Now()
	v := VET{TargetPackageCount: 300, Status: VETOpen, OpenedAt: now}

	require.NoError(t, v.Close(now.Add(time.Minute)))
	assert.Equal(t, VETClosed, v.Status)
	assert.NotNil(t, v.ClosedAt)
	assert.ErrorIs(t, v.Close(now), ErrVETNotOpen)

	require.NoError(t, v.Reopen(now.Add(2*time.Minute)))
	assert.Equal(t, VETOpen, v.Status)
	assert.Nil(t, v.ClosedAt)
	assert.Equal(t, 300, v.TargetPackageCount)
	assert.ErrorIs(t, v.Reopen(now), ErrVETNotClosed)
}

func TestVTO_Transitions(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name    string
		from    VTOStatus
		apply   func(v *VTO) error
		want    VTOStatus
		wantErr error
	}{
		{"close open", VTOOpen, func(v *VTO) error { return v.Close(now) }, VTOClosed, nil},
		{"complete open", VTOOpen, func(v *VTO) error { return v.Complete(now) }, VTOCompleted, nil},
		{"reopen closed", VTOClosed, func(v *VTO) error { return v.Reopen(now) }, VTOOpen, nil},
		{"close closed", VTOClosed, func(v *VTO) error { return v.Close(now) }, VTOClosed, ErrVTONotOpen},
		{"complete closed", VTOClosed, func(v *VTO) error { return v.Complete(now) }, VTOClosed, ErrVTONotOpen},
		{"reopen open", VTOOpen, func(v *VTO) error { return v.Reopen(now) }, VTOOpen, ErrVTONotClosed},
		{"reopen completed", VTOCompleted, func(v *VTO) error { return v.Reopen(now) }, VTOCompleted, ErrVTONotClosed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := VTO{Status: tt.from}
			err := tt.apply(&v)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, v.Status)
		})
	}
}
