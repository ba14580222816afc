package engine

import (
	"strings"

	"shadow-claim/internal/model"
	"shadow-claim/internal/procedures"
)

const procedureMatches = 3

// MatchProcedures returns the catalog procedures closest to query.
func (e *Engine) MatchProcedures(req *model.ProcedureMatchRequest) (*model.ProcedureMatchResponse, error) {
	if strings.TrimSpace(req.Query) == "" {
		return nil, &model.ValidationError{Field: "query", Message: "query is required"}
	}
	ranked := procedures.Rank(req.Query, procedureMatches)
	out := &model.ProcedureMatchResponse{Results: make([]model.ProcedureMatch, 0, len(ranked))}
	for _, m := range ranked {
		out.Results = append(out.Results, model.ProcedureMatch{
			Procedure:        m.Procedure.Name,
			BaseCost:         m.Procedure.BaseCost,
			StandardRoomRate: m.Procedure.StandardRoomRate,
			SimilarityScore:  m.Score,
		})
	}
	return out, nil
}
