package models

import "go.mongodb.org/mongo-driver/bson"

// Blog represents a blog entry. Link points at the external article the
// frontend redirects to.
type Blog struct {
	Base  `bson:",inline"`
	Image string `json:"image,omitempty" bson:"image,omitempty"`
	Link  string `json:"link,omitempty" bson:"link,omitempty"`
}

func (b *Blog) ApplyDefaults(defaultImage string) {
	if b.Image == "" {
		b.Image = defaultImage
	}
}

type BlogInput struct {
	BaseInput
	Image *string `json:"image"`
	Link  *string `json:"link"`
}

func (in BlogInput) Build() Blog {
	return Blog{
		Base:  in.BaseInput.build(),
		Image: deref(in.Image, ""),
		Link:  deref(in.Link, ""),
	}
}

func (in BlogInput) Fields() bson.M {
	set := in.BaseInput.fields()
	setIf(set, "image", in.Image)
	setIf(set, "link", in.Link)
	return set
}
