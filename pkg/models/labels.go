package models

import "fmt"

// ClassLabel is one of the fixed codes emitted by the dental classifier.
type ClassLabel string

const (
	LabelCariesSuperficial    ClassLabel = "CaS"
	LabelCompositeSuperficial ClassLabel = "CoS"
	LabelGum                  ClassLabel = "Gum"
	LabelMetalCrown           ClassLabel = "MC"
	LabelOrthodonticComponent ClassLabel = "OC"
	LabelOralLichenPlanus     ClassLabel = "OLP"
	LabelOther                ClassLabel = "OT"
)

// classLabels is positional: index i is the label of the classifier's i-th
// output. It must match the order the model was trained with.
var classLabels = [...]ClassLabel{
	LabelCariesSuperficial,
	LabelCompositeSuperficial,
	LabelGum,
	LabelMetalCrown,
	LabelOrthodonticComponent,
	LabelOralLichenPlanus,
	LabelOther,
}

// NumClasses is the length of every score vector the classifier produces.
const NumClasses = len(classLabels)

// ClassLabels returns the labels in classifier output order.
func ClassLabels() []ClassLabel {
	out := make([]ClassLabel, NumClasses)
	copy(out, classLabels[:])
	return out
}

// LabelAt maps a classifier output index to its label.
func LabelAt(index int) (ClassLabel, error) {
	if index < 0 || index >= NumClasses {
		return "", fmt.Errorf("class index %d out of range [0,%d)", index, NumClasses)
	}
	return classLabels[index], nil
}

// ParseClassLabel returns the label for code, matching case-sensitively.
func ParseClassLabel(code string) (ClassLabel, bool) {
	for _, l := range classLabels {
		if string(l) == code {
			return l, true
		}
	}
	return "", false
}

func (l ClassLabel) String() string {
	return string(l)
}
