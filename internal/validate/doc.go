// Package validate holds the validators registered for one concrete
// semantic type and runs them against realized data.
//
// # Records and Objects
//
// A [Record] binds one validator function to exactly one concrete type, the
// view type the data must be presented as, and the plugin that contributed
// it. An [Object] collects the records for a single concrete type. Records
// from several plugins are folded together with [Object.AddValidator] and
// [Object.AddObject]; merging objects for different concrete types fails
// with a [*TypeMismatchError].
//
// # Ordering
//
// Each validator carries a [Priority]. [Object.Validators] returns records
// with every [PriorityFirst] record ahead of all others and every
// [PriorityLast] record behind all others. [PriorityMiddle] and
// [PriorityMiddleB] records sit between the two and have no guaranteed
// order relative to each other. Sorting is lazy: mutations mark the object
// dirty and the next read sorts it.
//
// # Running validators
//
// [Object.Validate] presents the data as each record's view and calls the
// validators in order. The first failure stops the run:
//
//   - a [*ValidationError] (anything matching [ErrValidation]) means the
//     data is invalid and is returned unchanged;
//   - any other error, a failed transformation, or a panic is a bug in the
//     validator and is returned as an [*ImplementationError].
//
//	obj := validate.New(semtype.New("IntSequence1"), validate.WithTransformer(graph))
//	if err := obj.Validate(data, validate.LevelMax); err != nil {
//	    var verr *validate.ValidationError
//	    if errors.As(err, &verr) {
//	        // report invalid data
//	    }
//	}
//
// # Thread Safety
//
// An Object is safe for concurrent use. Mutation and the lazy sort are
// mutually excluded; a run works on a snapshot of the sorted records.
package validate
