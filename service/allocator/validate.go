package allocator

import (
	"fmt"

	goerrors "github.com/TudorHulban/go-errors"
	"github.com/asaskevich/govalidator"
	"github.com/viant/mvplanning/model"
)

const validationCaller = "Allocate"

func validateTask(task *model.PlanTask) error {
	if task == nil {
		return fmt.Errorf("%w: %w", ErrInvalidTask, goerrors.ErrValidation{
			Caller: validationCaller,
			Issue:  goerrors.ErrNilInput{InputName: "task"},
		})
	}
	if _, err := govalidator.ValidateStruct(task); err != nil {
		return fmt.Errorf("%w: plan %q: %w", ErrInvalidTask, task.PlanID, goerrors.ErrServiceValidation{
			ServiceName: "allocator",
			Caller:      validationCaller,
			Issue:       err,
		})
	}
	if task.Profile.ID == "" {
		return fmt.Errorf("%w: plan %q: %w", ErrInvalidTask, task.PlanID, goerrors.ErrValidation{
			Caller: validationCaller,
			Issue:  goerrors.ErrNilInput{InputName: "Profile.ID"},
		})
	}
	if len(task.Payload) == 0 {
		return fmt.Errorf("%w: plan %q: %w", ErrInvalidTask, task.PlanID, goerrors.ErrValidation{
			Caller: validationCaller,
			Issue:  goerrors.ErrNilInput{InputName: "Payload"},
		})
	}
	return nil
}
