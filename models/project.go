package models

import "go.mongodb.org/mongo-driver/bson"

// DefaultPriority sorts projects without a manual priority last
const DefaultPriority = 999

// Image is a screenshot attached to a project
type Image struct {
	URL           string `json:"url" bson:"url" validate:"required"`
	Caption       string `json:"caption,omitempty" bson:"caption,omitempty"`
	ShowOnProject bool   `json:"showOnProject" bson:"showOnProject"`
}

// Project represents a portfolio project
type Project struct {
	Base      `bson:",inline"`
	LiveURL   string  `json:"liveUrl,omitempty" bson:"liveUrl,omitempty"`
	GithubURL string  `json:"githubUrl,omitempty" bson:"githubUrl,omitempty"`
	Images    []Image `json:"images" bson:"images" validate:"dive"`
	Priority  int     `json:"priority" bson:"priority"`
}

func (p *Project) ApplyDefaults(defaultImage string) {
	if len(p.Images) == 0 && defaultImage != "" {
		p.Images = []Image{{URL: defaultImage, ShowOnProject: true}}
	}
}

type ProjectInput struct {
	BaseInput
	LiveURL   *string  `json:"liveUrl"`
	GithubURL *string  `json:"githubUrl"`
	Images    *[]Image `json:"images" validate:"omitempty,dive"`
	Priority  *int     `json:"priority"`
}

func (in ProjectInput) Build() Project {
	return Project{
		Base:      in.BaseInput.build(),
		LiveURL:   deref(in.LiveURL, ""),
		GithubURL: deref(in.GithubURL, ""),
		Images:    deref(in.Images, []Image{}),
		Priority:  deref(in.Priority, DefaultPriority),
	}
}

func (in ProjectInput) Fields() bson.M {
	set := in.BaseInput.fields()
	setIf(set, "liveUrl", in.LiveURL)
	setIf(set, "githubUrl", in.GithubURL)
	setIf(set, "images", in.Images)
	setIf(set, "priority", in.Priority)
	return set
}
