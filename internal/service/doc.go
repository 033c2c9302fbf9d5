// Package service contains the application use cases of the task board.
// It orchestrates domain objects and the repositories defined in
// internal/store to fulfil API requests.
//
// Key components:
//
// 1. Service Interfaces:
//   - TaskService exposes task listing, creation, partial update, deletion,
//     statistics and overdue lookups on behalf of an acting user
//   - UserService exposes registration, credential checks and user lookups
//
// 2. Use Case Implementations:
//   - Visibility, access policy and validation are applied before any write
//   - Updates and deletes run inside a single transaction via
//     store.RunInTransaction and the stores' WithTx
//   - Task creation hands a task.created notification to a TaskNotifier,
//     which never fails the request
//
// 3. Error Handling:
//   - Expected conditions surface as sentinel errors (ErrTaskNotFound,
//     ErrEmailTaken, ErrInvalidCredentials)
//   - domain.ValidationError and access.PermissionError pass through unchanged
//   - Anything else is wrapped in TaskServiceError
//
// The service layer depends on domain entities and repository interfaces,
// never on a specific storage or transport implementation.
package service
