package domain

// User is the public shape of a user record. The password hash is never
// included; it only travels inside UserRow.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UserRow is a full user record returned from storage.
// It includes the password hash so the Logic layer can verify credentials.
type UserRow struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
}

// NewUser carries the fields required to insert a user. The password is
// already hashed by the time it reaches a repository.
type NewUser struct {
	Name         string
	Email        string
	PasswordHash string
}

// UserPatch carries a partial update. Empty fields are left untouched.
type UserPatch struct {
	Name         string
	Email        string
	PasswordHash string
}

// Sortable user columns for ListOptions.Sort.
const (
	SortByID    = "id"
	SortByName  = "name"
	SortByEmail = "email"
)

// Sort directions for ListOptions.Order.
const (
	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// ListOptions controls pagination and ordering of user listings.
// Values are validated by the web layer before reaching a repository.
type ListOptions struct {
	Skip  int
	Take  int
	Sort  string
	Order string
}
