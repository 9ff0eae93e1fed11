// Package mvplanning allocates plans produced by a mission planner to a
// fleet of intermittently available vehicles.
//
// Plans are grouped by profile, a named roster of vehicles able to execute
// them. Each profile is served round-robin; plans that no vehicle can take
// right away wait in a FIFO queue and are handed out as vehicles report
// availability.
//
// Typical use goes through the Service façade:
//
//	srv, _ := mvplanning.New(mvplanning.WithConfig(cfg))
//	rt := srv.Runtime()
//	_ = rt.Start(ctx)
//	outcome, _ := rt.SubmitByProfile(ctx, "survey-7", "survey", spec)
//	_ = rt.SetAvailable(ctx, "lauv-xplore-1", true)
package mvplanning
