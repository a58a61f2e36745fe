package student

import "github.com/uptrace/bun"

// Student is a directory record. Identity is the generated id; the natural
// key is (roll_no, class), unique together.
type Student struct {
	bun.BaseModel `bun:"table:students,alias:s"`

	ID     int64   `bun:"id,pk,autoincrement" json:"_id"`
	RollNo int     `bun:"roll_no,notnull" json:"roll_no"`
	Name   string  `bun:"name,notnull" json:"name"`
	Class  string  `bun:"class,notnull" json:"class"`
	PhNo   *int64  `bun:"ph_no" json:"ph_no,omitempty"`
	Image  *string `bun:"image" json:"image,omitempty"`
}

// CreateStudentRequest is the POST /api/student-info body. The class field
// travels as "classvar" on the wire but is stored as "class".
type CreateStudentRequest struct {
	RollNo *int    `json:"roll_no"`
	Name   string  `json:"name"`
	Class  string  `json:"classvar"`
	PhNo   *int64  `json:"ph_no"`
	Image  *string `json:"image"`
}

// DeleteStudentRequest is the DELETE /api/student-info body.
type DeleteStudentRequest struct {
	RollNo *int   `json:"roll_no"`
	Class  string `json:"classvar"`
}
