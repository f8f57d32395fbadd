package models

import "time"

type ApplicationStatus string

const (
	StatusPending  ApplicationStatus = "pending"
	StatusAccepted ApplicationStatus = "accepted"
	StatusRejected ApplicationStatus = "rejected"
)

// Contact is the applicant's contact info captured at submission time.
// It is a snapshot, independent of the user record.
type Contact struct {
	FullName string `bson:"full_name" json:"full_name"`
	Phone    string `bson:"phone" json:"phone"`
	Email    string `bson:"email" json:"email"`
}

// JobSnapshot is the posting as the client saw it when applying. Job
// postings are not persisted as their own entity, so this denormalized
// copy is all the record ever holds.
type JobSnapshot struct {
	Title       string `bson:"title" json:"title"`
	Company     string `bson:"company" json:"company"`
	Location    string `bson:"location" json:"location"`
	Description string `bson:"description" json:"description"`
}

// Application is a candidate's submission for a job, stored as a
// document. Status starts at pending and only moves through the
// application service's decide path.
type Application struct {
	ID           string            `bson:"_id" json:"id"`
	UserID       string            `bson:"user_id" json:"user_id"`
	Contact      Contact           `bson:"contact" json:"contact"`
	Job          JobSnapshot       `bson:"job" json:"job"`
	ResumeFileID string            `bson:"resume_file_id" json:"resume_file_id"`
	Status       ApplicationStatus `bson:"status" json:"status"`
	CreatedAt    time.Time         `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time         `bson:"updated_at" json:"updated_at"`
}

// ApplicationWithOwner is an application joined with the owning
// account's identity, as served to administrators.
type ApplicationWithOwner struct {
	Application `bson:",inline"`
	OwnerName   string `json:"owner_name"`
	OwnerEmail  string `json:"owner_email"`
}
