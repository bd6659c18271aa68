package model

// Contact represents a single extracted contact datum tied to the source
// it was found on. Each record carries either an email address or a phone
// number, never both; this mirrors the CSV export format where each row
// is one value.
type Contact struct {
	// Source is the URL of the page the value was extracted from.
	Source string `json:"source"`

	// Repo is the repository identifier ("owner/name") when the value
	// was found through the code-hosting backend. Empty for web results.
	Repo string `json:"repo,omitempty"`

	// Title is the display title of the source page or file.
	Title string `json:"title,omitempty"`

	// Email is the extracted email address, lowercased.
	// Empty when the record carries a phone number.
	Email string `json:"email,omitempty"`

	// Phone is the extracted UK mobile number in normalized +447 form.
	// Empty when the record carries an email address.
	Phone string `json:"phone,omitempty"`
}

// Key returns a deduplication key for the contact.
// Two records are considered duplicates when they carry the same value
// from the same source, regardless of title.
func (c Contact) Key() string {
	return c.Source + "|" + c.Email + "|" + c.Phone
}

// Value returns the contact value (email or phone), whichever is set.
func (c Contact) Value() string {
	if c.Email != "" {
		return c.Email
	}
	return c.Phone
}
