// Package profile contains the student profile domain model.
//
// The package defines:
//
//   - Records: StudentRecord and StudentDetails as delivered by the education backend
//   - View models: ProfileViewModel, LearningSnapshot, ChartSeries
//   - Rules: field defaulting, gender mapping, advisory tip thresholds
//   - Contracts: RecordSource, implemented in infrastructure
//
// # Defaulting
//
// Every text leaf of a ProfileViewModel is populated. A missing or empty
// source value is replaced with FallbackText:
//
//	vm := BuildViewModel(record, record.PrimaryDetails())
//	vm.BasicInfo.Email // "Not provided" when the backend sent nothing
//
// Ability scores default to 0 and drive both the ChartSeries and the tips:
//
//	tips := GenerateTips(Abilities{Code: 39, Study: 60, Thinking: 50})
//	// [TipPracticeCoding]
//
// # Errors
//
// Classify maps any load failure onto NotFound, NetworkFailure or Unknown.
// The package has zero external dependencies.
package profile
