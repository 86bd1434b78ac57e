// Package mocks provides centralized mock implementations for testing.
//
// Each mock exposes function fields for per-test behavior overrides and a
// small in-memory default implementation for the common case. Defining the
// mocks once here keeps test setup consistent across packages instead of
// scattering inline mock types through individual test files.
//
// Usage:
//
//	userStore := mocks.NewMockUserStore()
//	userStore.GetByEmailFn = func(ctx context.Context, email string) (*domain.User, error) {
//	    return nil, store.ErrUserNotFound
//	}
package mocks
