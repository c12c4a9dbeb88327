package analysis

import "context"

// Observation receives the outcome of the analysis run on a context from Observe.
type Observation struct {
	Kind       Kind
	Outcome    string
	Reason     string
	PromptHash string
}

type observationKey struct{}

// Observe returns a context whose next analysis run reports into the returned Observation.
func Observe(ctx context.Context) (context.Context, *Observation) {
	obs := &Observation{}
	return context.WithValue(ctx, observationKey{}, obs), obs
}

func observationFrom(ctx context.Context) *Observation {
	obs, _ := ctx.Value(observationKey{}).(*Observation)
	return obs
}
