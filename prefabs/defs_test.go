package prefabs

import (
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/motionseq/motion"
)

const sampleDefs = `
; comment
:: heading
DEFAULT_COG_POSITION MSEQ_STATE_STAND 0 0 90.5
DECLARE_SPED_MOTION run
DECLARE_SKIP_LAST_FRAME land
DECLARE_NO_LVE_MOTION idle
DECLARE_Z_IND_MOTION swim

BEGIN_TRANSITION_SEQ MSEQ_STATE_STAND MSEQ_STATE_CROUCH "stand to crouch"
MOTION kneel
END_SEQUENCE

BEGIN_SEQUENCE run
MOTION run REPS=2 NOTIFY_INTERRUPT
CALLBACK 3 step
CALLBACK NOTIFY_END
MOTION idle LOOP
END_SEQUENCE

BEGIN_SEQUENCE hit
MOTION flinch IMMEDIATE REP=1
BEGIN_SEQUENCE implicit
MOTION idle
SOMETHING_ELSE 1 2
`

func TestParseDefs(t *testing.T) {
	defs, err := ParseDefs(strings.NewReader(sampleDefs), "sample.def")
	require.NoError(t, err)

	require.Equal(t, mgl64.Vec3{0, 0, 90.5}, defs.DefaultCOG[motion.PostureStand])
	require.Equal(t, []string{"run"}, defs.Sped)
	require.Equal(t, []string{"land"}, defs.SkipLastFrame)
	require.Equal(t, []string{"idle"}, defs.NoRootMotion)
	require.Equal(t, []string{"swim"}, defs.ZIndependent)

	require.Len(t, defs.Transitions, 1)
	tr := defs.Transitions[0]
	require.Equal(t, "stand to crouch", tr.Name)
	require.Equal(t, motion.PostureStand, tr.From)
	require.Equal(t, motion.PostureCrouch, tr.To)
	require.Len(t, tr.Motions, 1)

	var names []string
	for _, s := range defs.Sequences {
		names = append(names, s.Name)
	}
	require.Equal(t, []string{"run", "hit", "implicit"}, names)

	want := []MotionDef{
		{
			Clip:            "run",
			Reps:            2,
			NotifyInterrupt: true,
			NotifyEnd:       true,
			Callbacks: []motion.Callback{
				{Kind: motion.CallbackFrame, Frame: 3, Name: "step"},
				{Kind: motion.CallbackNotifyEnd},
			},
			Line: 15,
		},
		{Clip: "idle", Loop: true, Line: 18},
	}
	if diff := cmp.Diff(want, defs.Sequences[0].Motions); diff != "" {
		t.Fatalf("run motions mismatch (-want +got):\n%s", diff)
	}
	hit := defs.Sequences[1].Motions[0]
	require.True(t, hit.Immediate)
	require.Equal(t, 1, hit.Reps)
}

func TestParseDefsErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
	}{
		{"motion_outside", "MOTION idle"},
		{"callback_without_motion", "BEGIN_SEQUENCE a\nCALLBACK NOTIFY_END"},
		{"end_without_begin", "END_SEQUENCE"},
		{"bad_posture", "BEGIN_TRANSITION_SEQ MSEQ_STATE_FLY MSEQ_STATE_STAND x"},
		{"bad_repeat", "BEGIN_SEQUENCE a\nMOTION idle REPS=lots"},
		{"bad_cog", "DEFAULT_COG_POSITION MSEQ_STATE_STAND 0 zero 1"},
		{"missing_cog", "DEFAULT_COG_POSITION MSEQ_STATE_STAND 0 0"},
		{"callback_frame_without_name", "BEGIN_SEQUENCE a\nMOTION idle\nCALLBACK 4"},
		{"unnamed_sequence", "BEGIN_SEQUENCE"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := ParseDefs(strings.NewReader(c.src), c.name)
			require.Error(t, err)
			require.Contains(t, err.Error(), c.name)
		})
	}
}

func TestSplitDefsLine(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"MOTION idle LOOP", []string{"MOTION", "idle", "LOOP"}},
		{"\tMOTION   idle\t", []string{"MOTION", "idle"}},
		{`BEGIN_SEQUENCE "two words" x`, []string{"BEGIN_SEQUENCE", "two words", "x"}},
		{`KEY "open`, []string{"KEY", "open"}},
		{"; note", nil},
		{"   ", nil},
	}
	for _, c := range cases {
		got, _ := splitDefsLine(c.in)
		require.Equal(t, c.want, got, c.in)
	}
}
