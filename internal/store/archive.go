package store

import (
	"fmt"
	"path/filepath"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/reader"
	"github.com/xitongsys/parquet-go/writer"
)

// ArchiveRecord is the parquet row written for each save.
type ArchiveRecord struct {
	Name         string `parquet:"name=name, type=BYTE_ARRAY, convertedtype=UTF8"`
	FEN          string `parquet:"name=fen, type=BYTE_ARRAY, convertedtype=UTF8"`
	Mode         string `parquet:"name=mode, type=BYTE_ARRAY, convertedtype=UTF8"`
	PuzzleMoves  int32  `parquet:"name=puzzle_moves, type=INT32"`
	PuzzleSolver string `parquet:"name=puzzle_solver, type=BYTE_ARRAY, convertedtype=UTF8"`
	ChosenColor  string `parquet:"name=chosen_color, type=BYTE_ARRAY, convertedtype=UTF8"`
	WhiteClockMs int64  `parquet:"name=white_clock_ms, type=INT64"`
	BlackClockMs int64  `parquet:"name=black_clock_ms, type=INT64"`
	TimestampMs  int64  `parquet:"name=timestamp_ms, type=INT64"`
}

func recordOf(s GameSave) ArchiveRecord {
	return ArchiveRecord{
		Name:         s.Name,
		FEN:          s.FEN,
		Mode:         s.Mode,
		PuzzleMoves:  int32(s.PuzzleMoves),
		PuzzleSolver: s.PuzzleSolver,
		ChosenColor:  s.ChosenColor,
		WhiteClockMs: s.WhiteClockMs,
		BlackClockMs: s.BlackClockMs,
		TimestampMs:  s.Timestamp.UnixMilli(),
	}
}

// WriteArchive writes saves to a snappy-compressed parquet file at path.
func WriteArchive(path string, saves []GameSave) error {
	fileWriter, err := local.NewLocalFileWriter(path)
	if err != nil {
		return fmt.Errorf("archive: %w", err)
	}
	parquetWriter, err := writer.NewParquetWriter(fileWriter, new(ArchiveRecord), 1)
	if err != nil {
		fileWriter.Close()
		return fmt.Errorf("archive: %w", err)
	}
	parquetWriter.CompressionType = parquet.CompressionCodec_SNAPPY

	for _, s := range saves {
		if err := parquetWriter.Write(recordOf(s)); err != nil {
			fileWriter.Close()
			return fmt.Errorf("archive: write %s: %w", s.Name, err)
		}
	}
	if err := parquetWriter.WriteStop(); err != nil {
		fileWriter.Close()
		return fmt.Errorf("archive: %w", err)
	}
	return fileWriter.Close()
}

// ReadArchive loads every record from a parquet archive.
func ReadArchive(path string) ([]ArchiveRecord, error) {
	absPath := path
	if !filepath.IsAbs(path) {
		if resolved, err := filepath.Abs(path); err == nil {
			absPath = resolved
		}
	}
	fileReader, err := local.NewLocalFileReader(absPath)
	if err != nil {
		return nil, fmt.Errorf("archive: %w", err)
	}
	defer fileReader.Close()

	parquetReader, err := reader.NewParquetReader(fileReader, new(ArchiveRecord), 1)
	if err != nil {
		return nil, fmt.Errorf("archive: %w", err)
	}
	defer parquetReader.ReadStop()

	num := int(parquetReader.GetNumRows())
	records := make([]ArchiveRecord, num)
	if num == 0 {
		return records, nil
	}
	if err := parquetReader.Read(&records); err != nil {
		return nil, fmt.Errorf("archive: %w", err)
	}
	return records, nil
}

// Archive exports every save in the store to path.
func (s *FileStore) Archive(path string) (int, error) {
	saves, err := s.List()
	if err != nil {
		return 0, err
	}
	if err := WriteArchive(path, saves); err != nil {
		return 0, err
	}
	return len(saves), nil
}
