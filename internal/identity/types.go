package identity

// Admin is a registered administrator.
type Admin struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"-"`
	ImageURL string `json:"image_url,omitempty"`
}

// Student is a registered student. Deleting a student removes its
// attendance records.
type Student struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	RollNo   string `json:"roll_no"`
	Password string `json:"-"`
	ImageURL string `json:"image_url,omitempty"`
}
