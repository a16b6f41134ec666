package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
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
        scheduleTimelines:
          - id: TL_1
            mainTimeline: true
            entryId: SAI_1
            activityInstances:
              - id: SAI_1
                label: Visit 1
                activityIds: [A1]
                timelineExitId: EXIT_1
            timings:
              - id: T_1
                type: {code: ANCHOR}
                value: P0D
                relativeFromScheduledInstanceId: SAI_1
                relativeToScheduledInstanceId: SAI_1
            exits:
              - id: EXIT_1
`

func writeStudy(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "study.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_DecodesStudy(t *testing.T) {
	study, err := Load(writeStudy(t, studyYAML))
	require.NoError(t, err)

	assert.Equal(t, "STUDY_1", study.ID)
	require.Len(t, study.Versions, 1)

	design, err := PrimaryDesign(study)
	require.NoError(t, err)
	assert.Equal(t, "SD_1", design.ID)

	tl := design.Timeline("TL_1")
	require.NotNil(t, tl)
	assert.Equal(t, "SAI_1", tl.EntryID)
	require.NotNil(t, tl.TimingFrom("SAI_1"))
	assert.True(t, tl.TimingFrom("SAI_1").IsAnchor())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, ErrCodeNotFound, loadErr.Code)
}

func TestLoad_BadDocument(t *testing.T) {
	_, err := Load(writeStudy(t, "id: [unclosed"))
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, ErrCodeDecode, loadErr.Code)
}

func TestValidateFile_CleanStudy(t *testing.T) {
	issues, err := ValidateFile(writeStudy(t, studyYAML))
	require.NoError(t, err)
	assert.Empty(t, issues)
}

func TestValidateFile_SchemaViolation(t *testing.T) {
	issues, err := ValidateFile(writeStudy(t, "id: STUDY_1\nunexpected: field\n"))
	require.NoError(t, err)
	assert.NotEmpty(t, issues)
}

func TestPrimaryDesign_EmptyStudy(t *testing.T) {
	study, err := Load(writeStudy(t, "id: STUDY_1\nname: Study 1\n"))
	require.NoError(t, err)

	_, err = PrimaryDesign(study)
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, ErrCodeEmpty, loadErr.Code)
}
