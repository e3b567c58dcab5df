package models

// ProfileDTO carries a partial field-set for create-or-update. Pointer fields
// distinguish "absent from the payload" (nil, leave the stored value alone)
// from "present" (overwrite, even with an empty string).
type ProfileDTO struct {
	Bio            *string    `json:"bio,omitempty"`
	Hobbies        *string    `json:"hobbies,omitempty"`
	Certifications *string    `json:"certifications,omitempty"`
	Why            *string    `json:"why,omitempty"`
	Location       *string    `json:"location,omitempty"`
	Education      *string    `json:"education,omitempty"`
	Avatar         *string    `json:"avatar,omitempty"`
	Social         *SocialDTO `json:"social,omitempty"`
}

// SocialDTO merges per sub-field: setting facebook must not erase an
// existing twitter.
type SocialDTO struct {
	Facebook  *string `json:"facebook,omitempty"`
	Instagram *string `json:"instagram,omitempty"`
	Linkedin  *string `json:"linkedin,omitempty"`
	Twitter   *string `json:"twitter,omitempty"`
}

type UpsertProfileRequest struct {
	Profile ProfileDTO `json:"profile"`
}

type AddExperienceRequest struct {
	Location    string `json:"location"`
	Description string `json:"description"`
	From        int64  `json:"from,omitempty"`
	To          int64  `json:"to,omitempty"`
}
