// Package plugin defines plugins and the manager that installs them.
//
// A [Plugin] contributes artifact classes (a concrete semantic type and the
// Go type of its stored format), transformers between Go types, and
// validators registered against type-expressions. Validator shape is
// checked when the validator is registered; whether its view can be
// produced from each concrete type's stored format is checked when the
// plugin is installed with [Manager.AddPlugin].
//
//	p := plugin.New(plugin.Metadata{Name: "sequences", Version: "0.1.0"})
//	err := plugin.RegisterFunc(p, semtype.MustParse("IntSequence1 | AscIntSequence"),
//		"non_negative", validate.PriorityMiddle,
//		func(data []int, level validate.Level) error {
//			for _, n := range data {
//				if n < 0 {
//					return validate.NewValidationError("negative value %d", n)
//				}
//			}
//			return nil
//		})
//
//	m := plugin.NewManager()
//	if err := m.AddPlugin(p); err != nil {
//		// incompatible view or conflicting registration
//	}
//	if obj, ok := m.Lookup(semtype.New("IntSequence1")); ok {
//		err = obj.Validate(data, validate.LevelMax)
//	}
//
// There is no process-wide manager; construct one per use and discard it
// to forget every installed plugin.
package plugin
