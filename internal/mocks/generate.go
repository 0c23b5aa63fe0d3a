// Package mocks provides generated mock implementations for testing the
// ledger service.
//
// The mocks are generated with go.uber.org/mock (gomock). To regenerate
// after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	store := mocks.NewMockEventStore(ctrl)
//	store.EXPECT().Append(gomock.Any(), gomock.Any()).Return(nil)
package mocks

// Generate mock for the EventStore interface from internal/data.
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=event_store_mock.go github.com/trustgigs/ledger/internal/data EventStore

// Generate mock for the EventPublisher interface from internal/service.
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=event_publisher_mock.go github.com/trustgigs/ledger/internal/service EventPublisher
