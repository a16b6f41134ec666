package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const studyYAML = `
id: STUDY_1
name: Study 1
versions:
  - id: SV_1
    studyDesigns:
      - id: SD_1
        activities:
          - id: A1
            label: Blood Draw
            definedProcedures:
              - id: P1
                label: Venipuncture
        encounters:
          - id: ENC_1
            label: Baseline
          - id: ENC_2
            label: Week 1
        scheduleTimelines:
          - id: TL_1
            mainTimeline: true
            entryId: SAI_1
            activityInstances:
              - id: SAI_1
                label: Visit 1
                activityIds: [A1]
                encounterId: ENC_1
                defaultConditionId: SAI_2
              - id: SAI_2
                label: Visit 2
                activityIds: [A1]
                encounterId: ENC_2
                timelineExitId: EXIT_1
            timings:
              - id: T_1
                type:
                  code: ANCHOR
                value: P0D
                relativeFromScheduledInstanceId: SAI_1
                relativeToScheduledInstanceId: SAI_1
              - id: T_2
                type:
                  code: AFTER
                value: P7D
                relativeFromScheduledInstanceId: SAI_2
                relativeToScheduledInstanceId: SAI_1
            exits:
              - id: EXIT_1
`

// writeStudyFile writes the canonical two-visit study to a temp file.
func writeStudyFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "study.yaml")
	require.NoError(t, os.WriteFile(path, []byte(studyYAML), 0o644))
	return path
}
