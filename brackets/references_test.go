package brackets

import (
	"encoding/json"
	"testing"

	"github.com/Dosada05/fantasy-playoffs/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeReference(t *testing.T) {
	tests := []struct {
		name    string
		raw     models.RawReference
		want    models.AdvancementReference
		wantErr bool
	}{
		{name: "absent", raw: nil, want: models.NoReference()},
		{name: "null", raw: models.RawReference("null"), want: models.NoReference()},
		{name: "winner of", raw: winnerRef(3), want: models.WinnerOf(3)},
		{name: "loser of", raw: loserRef(2), want: models.LoserOf(2)},
		{name: "padded object", raw: models.RawReference(" {\"l\": 4} "), want: models.LoserOf(4)},
		{name: "both markers", raw: models.RawReference(`{"w":1,"l":2}`), wantErr: true},
		{name: "empty object", raw: models.RawReference(`{}`), wantErr: true},
		{name: "unknown marker", raw: models.RawReference(`{"x":1}`), wantErr: true},
		{name: "non numeric slot", raw: models.RawReference(`{"w":"abc"}`), wantErr: true},
		{name: "fractional slot", raw: models.RawReference(`{"w":1.5}`), wantErr: true},
		{name: "null slot", raw: models.RawReference(`{"l":null}`), wantErr: true},
		{name: "zero slot", raw: models.RawReference(`{"w":0}`), wantErr: true},
		{name: "bare number", raw: models.RawReference(`1`), wantErr: true},
		{name: "array", raw: models.RawReference(`[{"w":1}]`), wantErr: true},
		{name: "string", raw: models.RawReference(`"w1"`), wantErr: true},
		{name: "boolean", raw: models.RawReference(`true`), wantErr: true},
		{name: "truncated object", raw: models.RawReference(`{"w":1`), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeReference(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidReference)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeReference_FromSleeperJSON(t *testing.T) {
	payload := `[{"r":2,"m":3,"t1":1,"t2":null,"w":null,"l":null,"t2_from":{"w":1}},
	             {"r":2,"m":5,"t1":null,"t2":null,"w":null,"l":null,"p":5,"t1_from":{"l":1},"t2_from":{"l":2}}]`

	var raw []models.RawBracketSlot
	require.NoError(t, json.Unmarshal([]byte(payload), &raw))

	slots, err := NormalizeSlots(raw)
	require.NoError(t, err)
	require.Len(t, slots, 2)

	assert.True(t, slots[0].Team1Source.IsNone())
	assert.Equal(t, models.WinnerOf(1), slots[0].Team2Source)
	assert.Equal(t, models.LoserOf(1), slots[1].Team1Source)
	assert.Equal(t, models.LoserOf(2), slots[1].Team2Source)
	assert.Equal(t, 5, *slots[1].Place)
}

func TestNormalizeSlots_NonObjectReferenceFromSleeperJSON(t *testing.T) {
	payload := `[{"r":2,"m":3,"t1":1,"t2":null,"t2_from":1}]`

	var raw []models.RawBracketSlot
	require.NoError(t, json.Unmarshal([]byte(payload), &raw))
	require.Len(t, raw, 1)

	slots, err := NormalizeSlots(raw)
	assert.Nil(t, slots)
	assert.ErrorIs(t, err, ErrInvalidReference)
	assert.Contains(t, err.Error(), "slot 3 team2")
}

func TestNormalizeSlots_RejectsIntegrityViolations(t *testing.T) {
	tests := []struct {
		name    string
		slots   []models.RawBracketSlot
		wantErr error
	}{
		{
			name:    "round zero",
			slots:   []models.RawBracketSlot{{SlotID: 1, Round: 0}},
			wantErr: ErrInvalidSlot,
		},
		{
			name: "duplicate slot id",
			slots: []models.RawBracketSlot{
				{SlotID: 1, Round: 1, Team1: ptr(1), Team2: ptr(2)},
				{SlotID: 1, Round: 1, Team1: ptr(3), Team2: ptr(4)},
			},
			wantErr: ErrInvalidSlot,
		},
		{
			name:    "negative roster",
			slots:   []models.RawBracketSlot{{SlotID: 1, Round: 1, Team1: ptr(-4)}},
			wantErr: ErrInvalidSlot,
		},
		{
			name:    "round one forward reference",
			slots:   []models.RawBracketSlot{{SlotID: 1, Round: 1, Team1: ptr(1), Team2From: winnerRef(9)}},
			wantErr: ErrInvalidSlot,
		},
		{
			name: "both markers on a later slot",
			slots: []models.RawBracketSlot{
				{SlotID: 1, Round: 1, Team1: ptr(1), Team2: ptr(2)},
				{SlotID: 2, Round: 2, Team1From: models.RawReference(`{"w":1,"l":1}`)},
			},
			wantErr: ErrInvalidReference,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slots, err := NormalizeSlots(tt.slots)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, slots)
		})
	}
}

func TestAdvancementReferenceColumns(t *testing.T) {
	w, l := models.WinnerOf(4).Columns()
	require.NotNil(t, w)
	assert.Equal(t, 4, *w)
	assert.Nil(t, l)

	w, l = models.LoserOf(2).Columns()
	assert.Nil(t, w)
	require.NotNil(t, l)
	assert.Equal(t, 2, *l)

	w, l = models.NoReference().Columns()
	assert.Nil(t, w)
	assert.Nil(t, l)
}
