package gocbkvx

// VBucket identifies the partition an operation is routed to.
type VBucket interface {
	Index() uint16
	BucketName() string
}

type vbucketTarget struct {
	index      uint16
	bucketName string
}

var _ VBucket = vbucketTarget{}

// NewVBucket returns a VBucket for a fixed partition index.
func NewVBucket(index uint16, bucketName string) VBucket {
	return vbucketTarget{
		index:      index,
		bucketName: bucketName,
	}
}

func (v vbucketTarget) Index() uint16 {
	return v.index
}

func (v vbucketTarget) BucketName() string {
	return v.bucketName
}
