package review

import "errors"

var (
	ErrInvalidRating  = errors.New("rating must be between 1 and 5")
	ErrCommentTooLong = errors.New("comment must be at most 1000 characters")
)

type Rating struct {
	value int
}

func NewRating(v int) (Rating, error) {
	if v < 1 || v > 5 {
		return Rating{}, ErrInvalidRating
	}
	return Rating{value: v}, nil
}

func (r Rating) Value() int {
	return r.value
}

type Comment struct {
	value string
}

func NewComment(v string) (Comment, error) {
	if len(v) > 1000 {
		return Comment{}, ErrCommentTooLong
	}
	return Comment{value: v}, nil
}

func (c Comment) String() string {
	return c.value
}

func (c Comment) IsEmpty() bool {
	return c.value == ""
}
