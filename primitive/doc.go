// Package primitive builds typed values from raw, JSON-compatible values and
// the schemas that describe them.
//
// A [Builder] returns one of three [Value] types:
//
//   - [*Primitive] for strings, integers, numbers, booleans and arrays
//   - [*File] for file parameters
//   - [*Model] for objects
//
// Building is strict. An integer schema accepts Go integers and whole
// floating point numbers, never strings; enum and format constraints are
// enforced; a mismatch fails with *oaserrors.ValidationError carrying the
// path of the offending value ("body.tags[0].name").
//
// # Models and subtypes
//
// An object schema may be extended by other named schemas through allOf.
// When building a model, the builder tries the known subtypes most derived
// first and selects the first whose required fields, including inherited
// ones, are all present in the input. The schema itself is tried last. The
// selected type's name is reported by [Model.SubType], and only the fields
// declared along its chain are kept:
//
//	m, err := b.Build(user, map[string]any{"id": 1, "username": "kevin"})
//	m.(*primitive.Model).SubType()        // "User"
//	m.(*primitive.Model).Has("email")     // false
//	_, err = m.(*primitive.Model).Get("email") // *oaserrors.FieldNotSetError
//
// When the root schema declares a discriminator and the input names one of
// the candidates in that property, only that candidate is considered.
package primitive
