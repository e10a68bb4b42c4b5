package eventdomain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestState_CanTransitionTo(t *testing.T) {
	all := []State{StateDraft, StateActive, StateLive, StatePaused, StateEnded}
	allowed := map[[2]State]bool{
		{StateDraft, StateActive}: true,
		{StateActive, StateLive}:  true,
		{StateLive, StatePaused}:  true,
		{StatePaused, StateLive}:  true,
		{StateLive, StateEnded}:   true,
		{StatePaused, StateEnded}: true,
	}

	for _, from := range all {
		for _, to := range all {
			want := allowed[[2]State{from, to}]
			assert.Equal(t, want, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestParseState(t *testing.T) {
	tests := []struct {
		in      string
		want    State
		wantErr bool
	}{
		{in: "live", want: StateLive},
		{in: "  PAUSED ", want: StatePaused},
		{in: "Ended", want: StateEnded},
		{in: "archived", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseState(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestState_Flags(t *testing.T) {
	assert.True(t, StateDraft.IsInitial())
	assert.True(t, StateActive.IsInitial())
	assert.False(t, StateLive.IsInitial())

	assert.False(t, StateDraft.IsPublic())
	assert.True(t, StateLive.IsPublic())
	assert.True(t, StatePaused.IsPublic())
	assert.False(t, StateEnded.IsPublic())

	assert.Empty(t, StateEnded.NextStates())
	assert.Equal(t, []State{StatePaused, StateEnded}, StateLive.NextStates())
}

func TestNormalizeCode(t *testing.T) {
	assert.Equal(t, "ABC1", NormalizeCode("  abc1 "))
	assert.Equal(t, "", NormalizeCode("   "))
}
