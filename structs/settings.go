package structs

const (
	SettingContactPhone    = "contact_phone"
	SettingContactZalo     = "contact_zalo"
	SettingContactFacebook = "contact_facebook"
)

// KnownSettings lists the keys the site settings store accepts.
var KnownSettings = []string{SettingContactPhone, SettingContactZalo, SettingContactFacebook}

// SiteSettings is a flat key/value view of the settings table.
// Keys missing from the store are simply absent.
type SiteSettings map[string]string

type UpdateSettingsRequest struct {
	ContactPhone    *string `json:"contact_phone" validate:"omitempty,max=32"`
	ContactZalo     *string `json:"contact_zalo" validate:"omitempty,max=255"`
	ContactFacebook *string `json:"contact_facebook" validate:"omitempty,max=255"`
}

// Values returns only the fields present in the request.
func (r *UpdateSettingsRequest) Values() map[string]string {
	values := make(map[string]string)
	if r.ContactPhone != nil {
		values[SettingContactPhone] = *r.ContactPhone
	}
	if r.ContactZalo != nil {
		values[SettingContactZalo] = *r.ContactZalo
	}
	if r.ContactFacebook != nil {
		values[SettingContactFacebook] = *r.ContactFacebook
	}
	return values
}
