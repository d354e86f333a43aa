package blogservice

import (
	"strings"

	"github.com/ogcamping/console/internal/common"
)

const maxThumbnailBytes = 5 << 20

func validateTitle(v *common.Validator, title string) {
	title = strings.TrimSpace(title)
	v.Check(title != "", "title", "must be provided")
	v.Check(v.CheckStringLength(title, 3, 200), "title", "must be between 3 and 200 characters long")
}

func validateContent(v *common.Validator, content string) {
	v.Check(strings.TrimSpace(content) != "", "content", "must be provided")
}

func validateLocation(v *common.Validator, d *BlogDraft) {
	v.Check(d.LocationID >= 0, "location_id", "must not be negative")
	v.Check(d.LocationID == 0 || d.LocationName == "", "location_name", "must be empty when an existing location is selected")
	v.Check(d.LocationDescription == "" || strings.TrimSpace(d.LocationName) != "", "location_name", "must be provided with a location description")
}

func validateThumbnail(v *common.Validator, u *Upload) {
	if u == nil {
		return
	}
	v.Check(u.Filename != "", "thumbnail", "must have a file name")
	v.Check(len(u.Data) > 0, "thumbnail", "must not be empty")
	v.Check(len(u.Data) <= maxThumbnailBytes, "thumbnail", "must not be larger than 5MB")
}

func validateDraft(d *BlogDraft) error {
	v := common.NewValidator()
	validateTitle(v, d.Title)
	validateContent(v, d.Content)
	validateLocation(v, d)
	validateThumbnail(v, d.Thumbnail)
	if !v.Valid() {
		return v.ValidationError()
	}
	return nil
}

// validateFeedback runs before a reject request is built, an empty reason never reaches the backend.
func validateFeedback(v *common.Validator, feedback string) {
	v.Check(strings.TrimSpace(feedback) != "", "feedback", "must be provided")
	v.Check(v.CheckStringLength(feedback, 0, 1000), "feedback", "must not be more than 1000 characters long")
}

func validateID(v *common.Validator, id int64, name string) {
	v.Check(id > 0, name, "must be greater than zero")
}
