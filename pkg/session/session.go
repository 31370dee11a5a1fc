package session

import "time"

// MessageKind classifies a flash message
type MessageKind string

const (
	KindSuccess MessageKind = "success"
	KindError   MessageKind = "error"
	KindInfo    MessageKind = "info"
)

// Message is a one-shot notice shown on the next rendered page
type Message struct {
	Kind MessageKind `json:"kind"`
	Text string      `json:"text"`
}

// StaffIdentity is the signed-in staff member
type StaffIdentity struct {
	StaffID  int    `json:"staff_id"`
	Username string `json:"username"`
	RoleID   string `json:"role_id"`
}

// StudentIdentity is the signed-in student
type StudentIdentity struct {
	RegNo     string `json:"reg_no"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

// FullName returns "First Last"
func (s *StudentIdentity) FullName() string {
	return s.FirstName + " " + s.LastName
}

// Cart is the confirmed but unpaid item selection
type Cart struct {
	ItemIDs []int   `json:"item_ids"`
	Total   float64 `json:"total"`
}

// Empty reports whether the cart has nothing to pay for
func (c *Cart) Empty() bool {
	return c == nil || len(c.ItemIDs) == 0
}

// Receipt is the outcome of the last successful payment
type Receipt struct {
	OrderID   int       `json:"order_id"`
	PaymentID string    `json:"payment_id"`
	PaidAt    time.Time `json:"paid_at"`
	Total     float64   `json:"total"`
	Method    string    `json:"method"`
}

// Session is the request-scoped state carried between page loads.
// A staff member and a student may be signed in side by side.
type Session struct {
	ID      string           `json:"id"`
	Staff   *StaffIdentity   `json:"staff,omitempty"`
	Student *StudentIdentity `json:"student,omitempty"`
	Cart    *Cart            `json:"cart,omitempty"`
	Receipt *Receipt         `json:"receipt,omitempty"`
	Flash   []Message        `json:"flash,omitempty"`
}

// New returns an empty session
func New() *Session {
	return &Session{}
}

// IsStaff reports whether a staff member is signed in
func (s *Session) IsStaff() bool {
	return s.Staff != nil && s.Staff.StaffID != 0
}

// IsStudent reports whether a student is signed in
func (s *Session) IsStudent() bool {
	return s.Student != nil && s.Student.RegNo != ""
}

// SignInStaff replaces the staff identity
func (s *Session) SignInStaff(identity StaffIdentity) {
	s.Staff = &identity
}

// SignOutStaff drops the staff identity and keeps any student state
func (s *Session) SignOutStaff() {
	s.Staff = nil
}

// SignInStudent replaces the student identity and discards the previous
// student's cart and receipt
func (s *Session) SignInStudent(identity StudentIdentity) {
	s.Student = &identity
	s.Cart = nil
	s.Receipt = nil
}

// SignOutStudent drops the student identity with its cart and receipt
func (s *Session) SignOutStudent() {
	s.Student = nil
	s.Cart = nil
	s.Receipt = nil
}

// AddFlash queues a message for the next page
func (s *Session) AddFlash(kind MessageKind, text string) {
	s.Flash = append(s.Flash, Message{Kind: kind, Text: text})
}

// Success queues a success message
func (s *Session) Success(text string) {
	s.AddFlash(KindSuccess, text)
}

// Error queues an error message
func (s *Session) Error(text string) {
	s.AddFlash(KindError, text)
}

// TakeFlash returns the pending messages and clears them
func (s *Session) TakeFlash() []Message {
	messages := s.Flash
	s.Flash = nil
	return messages
}
