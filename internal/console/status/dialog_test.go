package status

import (
	"context"
	"errors"
	"testing"

	e "github.com/gartstein/guardroster/internal/console/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

type call struct {
	id   string
	body map[string]any
}

func recorder(err error) (Updater, *[]call) {
	var calls []call
	return func(_ context.Context, id string, body map[string]any) error {
		calls = append(calls, call{id: id, body: body})
		return err
	}, &calls
}

func TestOptionSets(t *testing.T) {
	tests := []struct {
		variant Variant
		field   string
		values  []string
	}{
		{Generic, "status", []string{"Pending", "Approved", "Declined"}},
		{Guard, "status", []string{"Active", "Inactive", "Suspended", "Terminated"}},
		{Firearm, "status", []string{"On Hand", "Lost", "Stolen"}},
		{Verification, "verified", []string{"true", "false"}},
	}
	for _, tt := range tests {
		t.Run(tt.variant.String(), func(t *testing.T) {
			set := For(tt.variant)
			assert.Equal(t, tt.field, set.Field)
			var got []string
			for _, o := range set.Options {
				got = append(got, o.Value)
			}
			assert.Equal(t, tt.values, got)
		})
	}
}

func TestOptionSet_Payload(t *testing.T) {
	body, err := For(Verification).Payload("true")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"verified": true}, body)
	assert.Equal(t, "Not Verified", For(Verification).Label("false"))

	body, err = For(Firearm).Payload("On Hand")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"status": "On Hand"}, body)

	_, err = For(Guard).Payload("Retired")
	assert.ErrorIs(t, err, e.ErrInvalidInput)
}

func TestDialog_SaveDeclined(t *testing.T) {
	update, calls := recorder(nil)
	d := NewDialog(For(Generic), update, zaptest.NewLogger(t))

	d.Open("c1", "Pending")
	assert.Equal(t, "Pending", d.View().Selected)
	require.NoError(t, d.Select("Declined"))
	require.NoError(t, d.Save(context.Background()))

	require.Len(t, *calls, 1)
	assert.Equal(t, "c1", (*calls)[0].id)
	assert.Equal(t, map[string]any{"status": "Declined"}, (*calls)[0].body)
	assert.False(t, d.IsOpen())
}

func TestDialog_SaveFailureClosesAndLogs(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	update, calls := recorder(errors.New("boom"))
	d := NewDialog(For(Generic), update, zap.New(core))

	d.Open("c1", "Pending")
	require.NoError(t, d.Select("Declined"))
	err := d.Save(context.Background())

	require.Error(t, err)
	assert.Len(t, *calls, 1)
	assert.False(t, d.IsOpen())
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "status update failed", logs.All()[0].Message)
}

func TestDialog_RejectsOutOfSetSelection(t *testing.T) {
	update, calls := recorder(nil)
	d := NewDialog(For(Firearm), update, zaptest.NewLogger(t))

	d.Open("f1", "On Hand")
	assert.ErrorIs(t, d.Select("Destroyed"), e.ErrInvalidInput)
	assert.Equal(t, "On Hand", d.View().Selected)
	assert.Empty(t, *calls)
}

func TestDialog_UnknownCurrentValueStaysOpenOnSave(t *testing.T) {
	update, calls := recorder(nil)
	d := NewDialog(For(Guard), update, zaptest.NewLogger(t))

	d.Open("g1", "")
	assert.ErrorIs(t, d.Save(context.Background()), e.ErrInvalidInput)
	assert.True(t, d.IsOpen())
	assert.Empty(t, *calls)
}

func TestDialog_Closed(t *testing.T) {
	update, calls := recorder(nil)
	d := NewDialog(For(Verification), update, zaptest.NewLogger(t))

	assert.ErrorIs(t, d.Save(context.Background()), e.ErrDialogClosed)
	assert.ErrorIs(t, d.Select("true"), e.ErrDialogClosed)

	d.Open("i1", "false")
	d.Cancel()
	assert.False(t, d.IsOpen())
	assert.ErrorIs(t, d.Save(context.Background()), e.ErrDialogClosed)
	assert.Empty(t, *calls)
}

func TestDialog_VerificationSendsBool(t *testing.T) {
	update, calls := recorder(nil)
	d := NewDialog(For(Verification), update, zaptest.NewLogger(t))

	d.Open("i1", "false")
	require.NoError(t, d.Select("true"))
	require.NoError(t, d.Save(context.Background()))
	assert.Equal(t, map[string]any{"verified": true}, (*calls)[0].body)

	v := d.View()
	assert.Equal(t, "verified", v.Field)
	assert.True(t, v.Options[0].Selected)
}
