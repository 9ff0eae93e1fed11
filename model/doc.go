// Package model contains the data structures shared by the allocator, the
// transport and the control surfaces: profiles, plan tasks, allocation
// outcomes and the assignment records kept in the ledger.
package model
