package domain

// UserRecord represents a registered user of the application.
// Mobile is the full number (country-code prefix concatenated with the local
// number) and acts as the unique identity key within the registry.
type UserRecord struct {
	Name   string `json:"name"`
	Mobile string `json:"mobile"`
	Photo  string `json:"photo,omitempty"` // data URI, set via photo upload
}

// UserPatch describes a profile update. Nil fields are left unchanged.
// Mobile may change as a result of the patch; the registry locates the
// record by its pre-patch mobile.
type UserPatch struct {
	Name   *string
	Mobile *string
	Photo  *string
}

// Apply returns a copy of u with the non-nil patch fields applied.
func (p UserPatch) Apply(u UserRecord) UserRecord {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Mobile != nil {
		u.Mobile = *p.Mobile
	}
	if p.Photo != nil {
		u.Photo = *p.Photo
	}
	return u
}
