package dataset

import "github.com/wyfcoding/naivebayes/xerrors"

// 数据集相关错误，均可用 errors.Is 匹配。
var (
	ErrInvalidInput      = xerrors.ErrInvalidInput
	ErrInvalidAttribute  = xerrors.ErrInvalidAttribute
	ErrAttrNamesMismatch = xerrors.ErrAttrNamesMismatch
	ErrTargetInInputs    = xerrors.ErrTargetInInputs
	ErrInputOutOfAttrs   = xerrors.ErrInputOutOfAttrs
	ErrTargetOutOfAttrs  = xerrors.ErrTargetOutOfAttrs
	ErrEmptyExamples     = xerrors.ErrEmptyExamples
	ErrRaggedRow         = xerrors.ErrRaggedRow
	ErrBadValue          = xerrors.ErrBadValue
	ErrDatasetNotFound   = xerrors.ErrDatasetNotFound
	ErrSourceUnavailable = xerrors.ErrSourceUnavailable
)
