// Package domain contains the core entity types of the task tracker: tasks,
// users, comments, and attachments. The types exist so the gateway can
// type-check payloads it reshapes; the upstream service remains the system
// of record for all of them.
package domain
