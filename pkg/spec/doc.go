// Package spec defines the declarative form model consumed by the transform
// package. A form is an ordered LayoutSpec of FormItemSpec values (sections,
// save-for-future-use toggles, mandate text); each section carries exactly one
// FieldSpec. Values are immutable once constructed and carry no behaviour
// beyond accessors, so the same LayoutSpec can be transformed any number of
// times. Documents can be decoded from JSON or YAML using the `type`
// discriminator documented on Decode.
package spec
