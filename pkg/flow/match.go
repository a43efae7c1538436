package flow

import (
	"errors"
	"fmt"

	"github.com/samber/lo"

	flowerrors "github.com/alexisbeaulieu97/flow/pkg/errors"
)

// ErrorMatcher selects errors for handling.
type ErrorMatcher interface {
	Match(err error) bool
	fmt.Stringer
}

type targetMatcher struct {
	targets []error
}

// On matches errors for which errors.Is holds against any target. Engine kind
// sentinels such as flowerrors.ErrStepFailed match every descendant kind.
func On(targets ...error) ErrorMatcher {
	return targetMatcher{targets: targets}
}

func (m targetMatcher) Match(err error) bool {
	return lo.SomeBy(m.targets, func(target error) bool { return errors.Is(err, target) })
}

func (m targetMatcher) String() string {
	return flowerrors.HumanJoin(lo.Map(m.targets, func(target error, _ int) string {
		return target.Error()
	}), "or")
}

// explicitlyFatal reports whether the matcher names the fatal sentinel itself
// rather than reaching it through the kind hierarchy.
func (m targetMatcher) explicitlyFatal() bool {
	return lo.Contains(m.targets, error(flowerrors.ErrFatal))
}

type typeMatcher[T error] struct{}

// OnType matches errors whose chain contains a T.
func OnType[T error]() ErrorMatcher {
	return typeMatcher[T]{}
}

func (typeMatcher[T]) Match(err error) bool {
	var target T
	return errors.As(err, &target)
}

func (typeMatcher[T]) String() string {
	var target T
	return fmt.Sprintf("%T", target)
}

type funcMatcher struct {
	fn func(error) bool
}

// OnFunc matches errors for which fn returns true.
func OnFunc(fn func(error) bool) ErrorMatcher {
	return funcMatcher{fn: fn}
}

func (m funcMatcher) Match(err error) bool {
	return m.fn(err)
}

func (funcMatcher) String() string {
	return "func"
}

func matchAny(matchers []ErrorMatcher, err error) bool {
	return lo.SomeBy(matchers, func(m ErrorMatcher) bool { return m.Match(err) })
}
