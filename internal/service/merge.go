package service

import (
	"profile-service/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// buildSetDocument translates a partial profile payload into a $set update
// document. Only fields present in the payload (non-nil pointers) produce a
// path, so absent fields are never touched on the stored document. Social
// sub-fields are written through dotted paths, which is what keeps a
// facebook update from wiping an existing twitter handle.
func buildSetDocument(dto *models.ProfileDTO) (bson.M, []string) {
	set := bson.M{}
	var changed []string

	scalars := []struct {
		path  string
		value *string
	}{
		{"bio", dto.Bio},
		{"hobbies", dto.Hobbies},
		{"certifications", dto.Certifications},
		{"why", dto.Why},
		{"location", dto.Location},
		{"education", dto.Education},
		{"avatar", dto.Avatar},
	}

	for _, f := range scalars {
		if f.value != nil {
			set[f.path] = *f.value
			changed = append(changed, f.path)
		}
	}

	if dto.Social != nil {
		socials := []struct {
			path  string
			value *string
		}{
			{"social.facebook", dto.Social.Facebook},
			{"social.instagram", dto.Social.Instagram},
			{"social.linkedin", dto.Social.Linkedin},
			{"social.twitter", dto.Social.Twitter},
		}

		for _, f := range socials {
			if f.value != nil {
				set[f.path] = *f.value
				changed = append(changed, f.path)
			}
		}
	}

	return set, changed
}
