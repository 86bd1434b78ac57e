// Package service contains the application use cases: task CRUD with
// sharing-aware authorization, live update notification after committed
// mutations, and the agent runs that generate and persist task analysis.
//
// Services coordinate domain entities and the store interfaces; they never
// depend on concrete infrastructure. Dependencies arrive through constructor
// injection, which is also how tests substitute the mocks package. Expected
// failures surface as domain/store sentinel errors for the API layer to map;
// unexpected ones are wrapped in TaskServiceError.
package service
