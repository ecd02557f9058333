// Package services defines the shared failure taxonomy for external
// collaborators and the orchestration layers that consume them.
//
// Every error leaving a collaborator boundary is tagged with one of the
// exported sentinels via Wrap so callers can classify without string
// matching. Service and transport failures are tagged ErrExternalService and
// are downgraded to "no result" by the orchestrators; only capture and tag
// embedding failures abort an invocation outright.
package services
