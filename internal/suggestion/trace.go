package suggestion

import (
	"go.uber.org/zap/zapcore"

	"github.com/jonathan/hypergigs/internal/types"
)

// scoreTrace renders per-candidate scores as a zap array.
type scoreTrace []types.MatchResult

func (t scoreTrace) MarshalLogArray(enc zapcore.ArrayEncoder) error {
	for _, r := range t {
		if err := enc.AppendObject(scoreEntry(r)); err != nil {
			return err
		}
	}
	return nil
}

type scoreEntry types.MatchResult

func (e scoreEntry) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("candidate_id", e.CandidateID.String())
	enc.AddInt("score", e.Score)
	enc.AddString("reason", e.MatchReason)
	return nil
}
