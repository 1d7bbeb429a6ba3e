// Package errors provides structured error handling for crawler-core.
//
// It provides:
//   - Structured errors with codes, messages, and metadata
//   - Error context preservation through wrapping
//   - Validation error helpers for config validation
//   - Type-safe error checking
//
// Creating errors:
//
//	err := errors.NotFound("enemy not found")
//	err := errors.FailedPreconditionf("bag is full (%d/%d)", count, capacity)
//
// Wrapping errors:
//
//	if err := repo.Save(ctx, input); err != nil {
//	    return errors.Wrap(err, "failed to persist character")
//	}
//
// Checking errors:
//
//	if errors.IsNotFound(err) {
//	    // treat as a no-op transaction
//	}
//
// Layer guidelines:
//   - Repositories return NotFound/AlreadyExists and wrap store failures
//     as Unavailable.
//   - Orchestrators validate inputs (InvalidArgument), check capacity and
//     state-machine preconditions (FailedPrecondition), and wrap repository
//     errors with business context.
package errors
